package types

// Action is a leaf rule verb.
type Action string

const (
	ActionDelete   Action = "delete"
	ActionPreserve Action = "preserve"
)

// Mode selects filter-list behavior: preserve keeps only declared entries
// (whitelist), delete touches only declared entries (blacklist).
type Mode string

const (
	ModePreserve Mode = "preserve"
	ModeDelete   Mode = "delete"
)

// Rule is the tagged union over the three rule shapes the configuration
// document can express. Evaluation dispatches on the concrete type.
type Rule interface {
	rule()
}

// Leaf applies a single action to the entry at the current path.
type Leaf struct {
	Action Action
}

// Group descends into named children without judging the directory itself.
type Group struct {
	Children map[string]Rule
}

// Filter lists a directory and applies Mode against the declared names.
type Filter struct {
	Mode         Mode
	Declarations map[string]Rule
}

// Invalid marks a rule that failed shape validation during parsing. It is
// carried in the tree so the evaluator can report it in path context and
// keep processing siblings.
type Invalid struct {
	Reason string
}

func (Leaf) rule()    {}
func (Group) rule()   {}
func (Filter) rule()  {}
func (Invalid) rule() {}

// RuleSet maps top-level namespace names to their rule trees, rooted under
// the pack's assets directory.
type RuleSet map[string]Rule
