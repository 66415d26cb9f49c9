package langs

import "regexp"

// Language is one row of the closed table of judge language ids. All dispatch
// on a language id goes through this table.
type Language struct {
	Id        int
	Name      string
	Extension string

	// Template is the starter snippet shown to the user for stdin/stdout
	// submissions.
	Template string

	// ContainerRe matches a user-declared container type (nil when the
	// language has no container requirement). The first capture group is the
	// declared name.
	ContainerRe *regexp.Regexp

	// EntryRe matches an existing entry point in user code.
	EntryRe *regexp.Regexp

	// RunnerContainer is the fixed container name the judge's runner expects
	// for this language, empty when irrelevant.
	RunnerContainer string
}

// Judge language ids, as assigned by the remote judge service.
const (
	C          = 50
	CSharp     = 51
	Cpp        = 54
	Go         = 60
	Java       = 62
	JavaScript = 63
	PHP        = 68
	Python     = 71
	Ruby       = 72
	TypeScript = 74
	Rust       = 73
	Kotlin     = 78
)

var (
	javaContainerRe = regexp.MustCompile(`(?m)(?:public\s+)?class\s+(\w+)`)
	javaEntryRe     = regexp.MustCompile(`(?m)public\s+static\s+void\s+main\s*\(`)
	cEntryRe        = regexp.MustCompile(`(?m)int\s+main\s*\(`)
	pyEntryRe       = regexp.MustCompile(`(?m)^if\s+__name__\s*==`)
	goEntryRe       = regexp.MustCompile(`(?m)func\s+main\s*\(`)
	rustEntryRe     = regexp.MustCompile(`(?m)fn\s+main\s*\(`)
	kotlinEntryRe   = regexp.MustCompile(`(?m)fun\s+main\s*\(`)
)

var table = map[int]Language{
	Java: {
		Id: Java, Name: "Java", Extension: "java",
		Template: "public class Main {\n    public static void main(String[] args) {\n        // Your code goes here\n        \n    }\n}",
		ContainerRe:     javaContainerRe,
		EntryRe:         javaEntryRe,
		RunnerContainer: "Main",
	},
	Python: {
		Id: Python, Name: "Python", Extension: "py",
		Template: "# Your code goes here\n",
		EntryRe:  pyEntryRe,
	},
	C: {
		Id: C, Name: "C", Extension: "c",
		Template: "#include <stdio.h>\n#include <stdlib.h>\n#include <string.h>\n\nint main() {\n    // Your code goes here\n    \n    return 0;\n}",
		EntryRe:  cEntryRe,
	},
	Cpp: {
		Id: Cpp, Name: "C++", Extension: "cpp",
		Template: "#include <iostream>\n#include <vector>\n#include <string>\nusing namespace std;\n\nint main() {\n    // Your code goes here\n    \n    return 0;\n}",
		EntryRe:  cEntryRe,
	},
	CSharp: {
		Id: CSharp, Name: "C#", Extension: "cs",
		Template:        "using System;\n\nclass Program {\n    static void Main(string[] args) {\n        // Your code goes here\n        \n    }\n}",
		ContainerRe:     regexp.MustCompile(`(?m)class\s+(\w+)`),
		EntryRe:         regexp.MustCompile(`(?m)static\s+void\s+Main\s*\(`),
		RunnerContainer: "Program",
	},
	JavaScript: {
		Id: JavaScript, Name: "JavaScript", Extension: "js",
		Template: "// Your code goes here\n",
	},
	TypeScript: {
		Id: TypeScript, Name: "TypeScript", Extension: "ts",
		Template: "// Your code goes here\n",
	},
	Go: {
		Id: Go, Name: "Go", Extension: "go",
		Template: "package main\n\nimport \"fmt\"\n\nfunc main() {\n    // Your code goes here\n    \n}",
		EntryRe:  goEntryRe,
	},
	PHP: {
		Id: PHP, Name: "PHP", Extension: "php",
		Template: "<?php\n// Your code goes here\n\n?>",
	},
	Ruby: {
		Id: Ruby, Name: "Ruby", Extension: "rb",
		Template: "# Your code goes here\n",
	},
	Rust: {
		Id: Rust, Name: "Rust", Extension: "rs",
		Template: "fn main() {\n    // Your code goes here\n    \n}",
		EntryRe:  rustEntryRe,
	},
	Kotlin: {
		Id: Kotlin, Name: "Kotlin", Extension: "kt",
		Template: "fun main() {\n    // Your code goes here\n    \n}",
		EntryRe:  kotlinEntryRe,
	},
}

// ByID looks a language up by its judge id.
func ByID(id int) (Language, bool) {
	l, ok := table[id]
	return l, ok
}

// Name returns the display name for a language id, or "Unknown".
func Name(id int) string {
	if l, ok := table[id]; ok {
		return l.Name
	}
	return "Unknown"
}

// Extension returns the source file extension for a language id, or "txt".
func Extension(id int) string {
	if l, ok := table[id]; ok {
		return l.Extension
	}
	return "txt"
}

// IDs returns all known language ids. Order is unspecified.
func IDs() []int {
	ids := make([]int, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	return ids
}
