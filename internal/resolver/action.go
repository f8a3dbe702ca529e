package resolver

import (
	"fmt"
	"strings"
)

// Action is the terminal action that happened to a pull request.
type Action uint8

const (
	ActionIgnore Action = iota
	ActionMerge
	ActionDecline
	ActionDelete
)

var actionStrings = [...]string{
	ActionIgnore:  "ignore",
	ActionMerge:   "merge",
	ActionDecline: "decline",
	ActionDelete:  "delete",
}

func (a Action) String() string {
	if int(a) > len(actionStrings)-1 {
		return fmt.Sprintf("unsupported Action value: %d", a)
	}

	return actionStrings[a]
}

// actionRules are evaluated in order, the first token that is contained in
// the label wins.
var actionRules = [...]struct {
	token  string
	action Action
}{
	{"merge", ActionMerge},
	{"decline", ActionDecline},
	{"delete", ActionDelete},
}

// ClassifyAction maps a free-text action label to an Action.
// The label is matched case-insensitively by substring, when it contains
// multiple known tokens merge takes precedence over decline and decline over
// delete. Labels without a known token are classified as ActionIgnore.
func ClassifyAction(label string) Action {
	label = strings.ToLower(label)

	for _, rule := range actionRules {
		if strings.Contains(label, rule.token) {
			return rule.action
		}
	}

	return ActionIgnore
}
