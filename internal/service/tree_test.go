package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"gopkg.in/yaml.v3"

	"treesync/internal/domain/models"
	"treesync/internal/repository/memory"
)

type treeFixture struct {
	Folders []struct {
		ID       string  `yaml:"id"`
		Name     string  `yaml:"name"`
		ParentID *string `yaml:"parent"`
		Order    float64 `yaml:"order"`
	} `yaml:"folders"`
	Items []struct {
		ID       string  `yaml:"id"`
		Name     string  `yaml:"name"`
		Icon     string  `yaml:"icon"`
		ParentID *string `yaml:"parent"`
		Order    float64 `yaml:"order"`
	} `yaml:"items"`
}

func seedStore(t *testing.T, userID, doc string) *memory.Store {
	t.Helper()

	var fx treeFixture
	if err := yaml.Unmarshal([]byte(doc), &fx); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}

	store := memory.NewStore()
	ctx := context.Background()
	for _, f := range fx.Folders {
		err := store.Folders().Create(ctx, &models.Folder{
			ID: f.ID, UserID: userID, Name: f.Name, ParentID: f.ParentID, Order: f.Order,
		})
		if err != nil {
			t.Fatalf("seed folder %s: %v", f.ID, err)
		}
	}
	for _, it := range fx.Items {
		err := store.Items().Create(ctx, &models.Item{
			ID: it.ID, UserID: userID, Name: it.Name, Icon: it.Icon, ParentID: it.ParentID, Order: it.Order,
		})
		if err != nil {
			t.Fatalf("seed item %s: %v", it.ID, err)
		}
	}
	return store
}

func newTreeService(store *memory.Store) *TreeService {
	return NewTreeService(store.Folders(), store.Items(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAssembleNestedHierarchy(t *testing.T) {
	store := seedStore(t, "alice", `
folders:
  - {id: f1, name: Projects, order: 1}
  - {id: f2, name: Go, parent: f1, order: 1}
items:
  - {id: i1, name: pgx docs, icon: book, parent: f2, order: 1}
  - {id: i2, name: scratch, icon: note, order: 5}
`)

	tree, err := newTreeService(store).Assemble(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	// Top level: root folders first, then standalone items.
	if len(tree) != 2 {
		t.Fatalf("top level has %d nodes, want 2", len(tree))
	}
	f1 := tree[0]
	if f1.ID != "f1" || f1.ItemType != models.NodeTypeFolder {
		t.Fatalf("top node = %s/%s, want f1/folder", f1.ID, f1.ItemType)
	}
	if tree[1].ID != "i2" || tree[1].ItemType != models.NodeTypeItem {
		t.Fatalf("second top node = %s/%s, want i2/item", tree[1].ID, tree[1].ItemType)
	}
	if tree[1].Order != 5 {
		t.Fatalf("standalone item order = %v, want 5 (carried through)", tree[1].Order)
	}

	// f1 contains f2, f2 contains i1; i1 appears nowhere at top level.
	if len(f1.Children) != 1 || f1.Children[0].ID != "f2" {
		t.Fatalf("f1 children = %+v, want [f2]", f1.Children)
	}
	f2 := f1.Children[0]
	if len(f2.Children) != 1 || f2.Children[0].ID != "i1" {
		t.Fatalf("f2 children = %+v, want [i1]", f2.Children)
	}
	if f2.Children[0].Icon != "book" {
		t.Fatalf("i1 icon = %q, want book", f2.Children[0].Icon)
	}
}

func TestAssembleChildOrdering(t *testing.T) {
	// Within a folder: sub-folders first, then items, regardless of order keys.
	store := seedStore(t, "alice", `
folders:
  - {id: root, name: Root, order: 1}
  - {id: sub, name: Sub, parent: root, order: 9}
items:
  - {id: a, name: A, parent: root, order: 1}
  - {id: b, name: B, parent: root, order: 2}
`)

	tree, err := newTreeService(store).Assemble(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	children := tree[0].Children
	want := []string{"sub", "a", "b"}
	if len(children) != len(want) {
		t.Fatalf("root has %d children, want %d", len(children), len(want))
	}
	for i, id := range want {
		if children[i].ID != id {
			t.Errorf("children[%d] = %s, want %s", i, children[i].ID, id)
		}
	}
}

func TestAssembleEmptyUser(t *testing.T) {
	store := memory.NewStore()

	tree, err := newTreeService(store).Assemble(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if tree == nil {
		t.Fatal("tree is nil, want empty slice (serializes as [])")
	}
	if len(tree) != 0 {
		t.Fatalf("tree has %d nodes, want 0", len(tree))
	}
}

func TestAssembleUserScoping(t *testing.T) {
	store := seedStore(t, "alice", `
folders:
  - {id: f1, name: Mine, order: 1}
`)
	if err := store.Folders().Create(context.Background(), &models.Folder{
		ID: "fx", UserID: "bob", Name: "Theirs",
	}); err != nil {
		t.Fatalf("seed bob folder: %v", err)
	}

	tree, err := newTreeService(store).Assemble(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(tree) != 1 || tree[0].ID != "f1" {
		t.Fatalf("alice sees %+v, want only f1", tree)
	}
}

// cyclicFolderRepo serves a canned, deliberately inconsistent child listing:
// the kind of data a buggy or malicious reparent can leave behind, where a
// folder shows up as its own transitive child.
type cyclicFolderRepo struct {
	roots    []models.Folder
	children map[string][]models.Folder
}

func (r *cyclicFolderRepo) Create(ctx context.Context, folder *models.Folder) error { return nil }
func (r *cyclicFolderRepo) GetByID(ctx context.Context, userID, id string) (*models.Folder, error) {
	return nil, nil
}
func (r *cyclicFolderRepo) ListRoots(ctx context.Context, userID string) ([]models.Folder, error) {
	return r.roots, nil
}
func (r *cyclicFolderRepo) ListChildren(ctx context.Context, userID, folderID string) ([]models.Folder, error) {
	return r.children[folderID], nil
}
func (r *cyclicFolderRepo) UpdatePlacement(ctx context.Context, userID, id string, parentID *string, order float64) error {
	return nil
}
func (r *cyclicFolderRepo) UpdateCollapsed(ctx context.Context, userID, id string, collapsed bool) error {
	return nil
}

func TestAssembleTerminatesOnCycle(t *testing.T) {
	rootID := "root"
	folders := &cyclicFolderRepo{
		roots: []models.Folder{{ID: "root", UserID: "alice", Name: "Root"}},
		children: map[string][]models.Folder{
			"root": {{ID: "f1", UserID: "alice", Name: "A", ParentID: &rootID}},
			// f1 claims root as its child again: a reachable cycle.
			"f1": {{ID: "root", UserID: "alice", Name: "Root"}},
		},
	}
	items := memory.NewStore().Items()

	svc := NewTreeService(folders, items, slog.New(slog.NewTextHandler(io.Discard, nil)))
	tree, err := svc.Assemble(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Assemble must terminate and not error, got %v", err)
	}

	// The repeated folder is truncated; everything above it survives.
	if len(tree) != 1 || tree[0].ID != "root" {
		t.Fatalf("tree = %+v, want [root]", tree)
	}
	if len(tree[0].Children) != 1 || tree[0].Children[0].ID != "f1" {
		t.Fatalf("root children = %+v, want [f1]", tree[0].Children)
	}
	if len(tree[0].Children[0].Children) != 0 {
		t.Fatalf("cyclic branch under f1 = %+v, want truncated", tree[0].Children[0].Children)
	}
}
