package bank

var topicNames = map[string]string{
	"c_basics":            "C Basics & Syntax",
	"variables_datatypes": "Variables & Data Types",
	"operators":           "Operators & Expressions",
	"control_structures":  "Control Structures",
	"functions":           "Functions & Recursion",
	"arrays_strings":      "Arrays & Strings",
	"pointers":            "Pointers & Memory",
	"structures_unions":   "Structures & Unions",
	"file_io":             "File Input/Output",
	"memory_management":   "Dynamic Memory Management",
	"preprocessor":        "Preprocessor Directives",
	"advanced_c":          "Advanced C Concepts",
}

// TopicName returns the display name of a topic key, or the key itself.
func TopicName(topic string) string {
	if name, ok := topicNames[topic]; ok {
		return name
	}
	return topic
}
