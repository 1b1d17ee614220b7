package models

import (
	"encoding/json"
	"testing"
)

func TestEnvelopeProbe(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want MessageType
	}{
		{name: "join", raw: `{"type":"join","userId":"u1"}`, want: MessageJoin},
		{name: "add_item", raw: `{"type":"add_item","userId":"u1","item":{}}`, want: MessageAddItem},
		{name: "unknown carried through", raw: `{"type":"delete_item"}`, want: MessageType("delete_item")},
		{name: "missing type", raw: `{"userId":"u1"}`, want: MessageType("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env Envelope
			if err := json.Unmarshal([]byte(tt.raw), &env); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if env.Type != tt.want {
				t.Errorf("Type = %q, want %q", env.Type, tt.want)
			}
		})
	}
}

func TestMoveItemFolderIDDecoding(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantNil  bool
		wantDest string
	}{
		{name: "explicit null", raw: `{"type":"move_item","userId":"u1","itemId":"i1","folderId":null,"newOrder":1}`, wantNil: true},
		{name: "omitted", raw: `{"type":"move_item","userId":"u1","itemId":"i1","newOrder":1}`, wantNil: true},
		{name: "set", raw: `{"type":"move_item","userId":"u1","itemId":"i1","folderId":"f9","newOrder":1}`, wantDest: "f9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg MoveItemMessage
			if err := json.Unmarshal([]byte(tt.raw), &msg); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if tt.wantNil {
				if msg.FolderID != nil {
					t.Errorf("FolderID = %q, want nil", *msg.FolderID)
				}
			} else if msg.FolderID == nil || *msg.FolderID != tt.wantDest {
				t.Errorf("FolderID = %v, want %q", msg.FolderID, tt.wantDest)
			}
		})
	}
}

func TestMessageValidation(t *testing.T) {
	tests := []struct {
		name    string
		msg     interface{ Validate() error }
		wantErr bool
	}{
		{name: "valid join", msg: JoinMessage{UserID: "u1"}},
		{name: "join without user", msg: JoinMessage{}, wantErr: true},
		{name: "valid add_item", msg: AddItemMessage{UserID: "u1", Item: Item{ID: "i1", Name: "n"}}},
		{name: "add_item without id", msg: AddItemMessage{UserID: "u1", Item: Item{Name: "n"}}, wantErr: true},
		{name: "add_item without name", msg: AddItemMessage{UserID: "u1", Item: Item{ID: "i1"}}, wantErr: true},
		{name: "valid add_folder", msg: AddFolderMessage{UserID: "u1", Folder: Folder{ID: "f1", Name: "n"}}},
		{name: "add_folder without user", msg: AddFolderMessage{Folder: Folder{ID: "f1", Name: "n"}}, wantErr: true},
		{name: "valid move", msg: MoveItemMessage{UserID: "u1", ItemID: "i1"}},
		{name: "move without target", msg: MoveItemMessage{UserID: "u1"}, wantErr: true},
		{name: "valid edit", msg: EditItemMessage{UserID: "u1", ItemID: "f1", Collapsed: true}},
		{name: "edit without target", msg: EditItemMessage{UserID: "u1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestTreeNodeWireShape(t *testing.T) {
	parent := "f1"
	folder := FolderNode(Folder{ID: "f1", Name: "Projects", Order: 1.5, Collapsed: true})
	folder.Children = append(folder.Children, ItemNode(Item{ID: "i1", Name: "scratch", Icon: "note", ParentID: &parent, Order: 2}))

	data, err := json.Marshal(folder)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["item_type"] != "folder" || decoded["collapsed"] != true || decoded["order"] != 1.5 {
		t.Errorf("folder node = %s", data)
	}

	children, ok := decoded["children"].([]any)
	if !ok || len(children) != 1 {
		t.Fatalf("children = %v", decoded["children"])
	}
	item := children[0].(map[string]any)
	if item["item_type"] != "item" || item["icon"] != "note" {
		t.Errorf("item node = %v", item)
	}
	// Item nodes are leaves: children present and empty.
	if grand, ok := item["children"].([]any); !ok || len(grand) != 0 {
		t.Errorf("item children = %v, want []", item["children"])
	}
}
