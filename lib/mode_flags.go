package lib

// Mode is the mode psam is being run in.
type Mode int

const (
	HelpMode Mode = iota
	CheckMode
	GridMode
	RunMode
	ExampleConfigMode
)

var modeNames = []string{"help", "check", "grid", "run", "example_config"}

func (m Mode) String() string { return modeNames[m] }

// NeedsConfig returns true if the mode reads a config file.
func (m Mode) NeedsConfig() bool {
	return m == CheckMode || m == GridMode || m == RunMode
}
