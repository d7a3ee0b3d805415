package questions

// fallbackTopics is used for branches missing from coreTopics.
var fallbackTopics = []string{"basic engineering topics"}

var coreTopics = map[string][]string{
	"Computer Science": {"Data Structures", "Algorithms", "Operating Systems", "DBMS", "Computer Networks", "OOP"},
	"Electrical":       {"Circuits", "Control Systems", "Signal Processing", "Power Systems", "Electromagnetics"},
	"Mechanical":       {"Thermodynamics", "Fluid Mechanics", "Heat Transfer", "Strength of Materials", "Machine Design"},
	"Civil":            {"Structural Analysis", "Concrete Technology", "Geotechnical Engineering", "Transportation Engineering"},
	"Electronics":      {"Analog Circuits", "Digital Logic", "Microprocessors", "Embedded Systems", "VLSI"},
}

// CoreTopics returns the core subjects for an engineering branch. Lookup is
// exact; unknown branches get a generic placeholder. The result is a copy.
func CoreTopics(branch string) []string {
	topics, ok := coreTopics[branch]
	if !ok {
		topics = fallbackTopics
	}
	return append([]string(nil), topics...)
}

// Branches lists the branch names with a dedicated topic table.
func Branches() []string {
	return []string{"Computer Science", "Electrical", "Mechanical", "Civil", "Electronics"}
}
