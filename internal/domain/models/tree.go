package models

// Node type discriminants carried in the item_type field of tree nodes.
const (
	NodeTypeFolder = "folder"
	NodeTypeItem   = "item"
)

// TreeNode is the derived, client-facing shape of one node in the assembled
// hierarchy. It is never persisted. Folder nodes nest sub-folder nodes followed
// by item nodes in Children; item nodes always carry an empty Children slice.
type TreeNode struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Icon      string      `json:"icon,omitempty"`
	Order     float64     `json:"order"`
	Collapsed bool        `json:"collapsed"`
	ItemType  string      `json:"item_type"`
	Children  []*TreeNode `json:"children"`
}

// FolderNode builds a tree node from a folder row, leaving Children for the
// caller to fill.
func FolderNode(f Folder) *TreeNode {
	return &TreeNode{
		ID:        f.ID,
		Name:      f.Name,
		Order:     f.Order,
		Collapsed: f.Collapsed,
		ItemType:  NodeTypeFolder,
		Children:  []*TreeNode{},
	}
}

// ItemNode builds a leaf tree node from an item row.
func ItemNode(it Item) *TreeNode {
	return &TreeNode{
		ID:       it.ID,
		Name:     it.Name,
		Icon:     it.Icon,
		Order:    it.Order,
		ItemType: NodeTypeItem,
		Children: []*TreeNode{},
	}
}
