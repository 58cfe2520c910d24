package shell

// Action is one entry of the main menu.
type Action int

const (
	ActionView Action = iota + 1
	ActionAdd
	ActionBackup
	ActionQuit
)

// MenuItem binds a single-letter key to an action.
type MenuItem struct {
	Key         string
	Action      Action
	Description string
}

// Menu lists the dispatchable actions in display order. Quit is handled by
// the loop itself and is not part of the list.
type Menu []MenuItem

// QuitKey ends the shell.
const QuitKey = "q"

func DefaultMenu() Menu {
	return Menu{
		{Key: "v", Action: ActionView, Description: "View detail of a single product"},
		{Key: "a", Action: ActionAdd, Description: "Add a new product"},
		{Key: "b", Action: ActionBackup, Description: "Back up the entire inventory to CSV"},
	}
}

// Lookup resolves a normalised key.
func (m Menu) Lookup(key string) (Action, bool) {
	if key == QuitKey {
		return ActionQuit, true
	}
	for _, item := range m {
		if item.Key == key {
			return item.Action, true
		}
	}
	return 0, false
}
