package domain

// CommandKind classifies what the console user asked for.
type CommandKind int

const (
	CommandUnknown CommandKind = iota
	CommandHelp
	CommandQuit
	CommandList    // list every grocery
	CommandShow    // describe one grocery
	CommandAdd     // add a batch
	CommandRemove  // remove an amount, earliest expiry first
	CommandPurge   // drop everything expired today
	CommandExpired // list batches expired before a date
	CommandValue   // value of batches expired before a date
	CommandRecipes // list every recipe
	CommandSuggest // recipes that can be cooked now
	CommandRecipe  // show one recipe
	CommandCheck   // availability of one recipe
	CommandCook    // prepare a recipe
	CommandScale   // change a recipe's portions
)

var commandNames = map[CommandKind]string{
	CommandUnknown: "unknown",
	CommandHelp:    "help",
	CommandQuit:    "quit",
	CommandList:    "list",
	CommandShow:    "show",
	CommandAdd:     "add",
	CommandRemove:  "remove",
	CommandPurge:   "purge",
	CommandExpired: "expired",
	CommandValue:   "value",
	CommandRecipes: "recipes",
	CommandSuggest: "suggest",
	CommandRecipe:  "recipe",
	CommandCheck:   "check",
	CommandCook:    "cook",
	CommandScale:   "scale",
}

// String returns the command's keyword.
func (k CommandKind) String() string {
	if s, ok := commandNames[k]; ok {
		return s
	}
	return "unknown"
}

// Command is a parsed console line.
type Command struct {
	Kind CommandKind
	Args []string
	Raw  string
}

// Arg returns the i-th argument or "" when absent.
func (c *Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}
