// Package wrap performs pure textual preparation of user-submitted code. It
// never executes or validates the code it touches.
package wrap

import (
	"fmt"
	"strings"

	"github.com/coderzclub/harness/api"
	"github.com/coderzclub/harness/internal/langs"
)

// Normalize prepares a stdin/stdout submission for the judge. The only
// transformation is renaming a user-declared container to the fixed name the
// runner expects; user logic is preserved byte for byte.
func Normalize(code string, langId int) string {
	lang, ok := langs.ByID(langId)
	if !ok || lang.ContainerRe == nil || lang.RunnerContainer == "" {
		return code
	}
	return renameContainer(code, lang)
}

// ForFunctionCall makes a bare-function submission runnable without the user
// writing an entry point. The generated entry point reads all of stdin,
// adapts it per the first declared parameter type, calls the user's function
// and prints the return value.
func ForFunctionCall(code string, langId int, functionName string, params []api.ParameterSpec) string {
	lang, ok := langs.ByID(langId)
	if !ok {
		return code
	}

	firstType := ""
	if len(params) > 0 {
		firstType = params[0].Type
	}

	switch langId {
	case langs.Java, langs.CSharp:
		return wrapContained(code, lang, functionName, firstType)
	case langs.Python:
		return wrapPython(code, lang, functionName, firstType)
	case langs.Cpp:
		return wrapCpp(code, lang, functionName)
	case langs.C:
		return wrapC(code, lang, functionName)
	case langs.JavaScript, langs.TypeScript:
		return wrapJavaScript(code, functionName, firstType)
	}
	return code
}

func renameContainer(code string, lang langs.Language) string {
	loc := lang.ContainerRe.FindStringSubmatchIndex(code)
	if loc == nil {
		return code
	}
	// replace only the captured container name, first declaration only
	return code[:loc[2]] + lang.RunnerContainer + code[loc[3]:]
}

// wrapContained covers languages whose entry point must live inside a
// container type.
func wrapContained(code string, lang langs.Language, functionName, firstType string) string {
	hasContainer := lang.ContainerRe != nil && lang.ContainerRe.MatchString(code)
	hasEntry := lang.EntryRe != nil && lang.EntryRe.MatchString(code)

	entry := javaEntryPoint(lang, functionName, firstType)
	decl := fmt.Sprintf("public class %s {\n", lang.RunnerContainer)
	if lang.Id == langs.CSharp {
		entry = csharpEntryPoint(lang, functionName, firstType)
		decl = fmt.Sprintf("class %s {\n", lang.RunnerContainer)
	}

	switch {
	case hasContainer && hasEntry:
		return renameContainer(code, lang)
	case hasContainer:
		return injectBeforeFinalBrace(renameContainer(code, lang), entry)
	default:
		var b strings.Builder
		b.WriteString(decl)
		b.WriteString(code)
		if !strings.HasSuffix(code, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(entry)
		b.WriteString("}\n")
		return b.String()
	}
}

func javaEntryPoint(lang langs.Language, functionName, firstType string) string {
	arg := "input"
	switch {
	case isStringArray(firstType):
		arg = "input.trim().split(\"\\\\s+\")"
	case isIntType(firstType):
		arg = "Integer.parseInt(input.trim())"
	}
	return fmt.Sprintf(`    public static void main(String[] args) {
        java.util.Scanner scanner = new java.util.Scanner(System.in);
        StringBuilder sb = new StringBuilder();
        while (scanner.hasNextLine()) {
            sb.append(scanner.nextLine());
            if (scanner.hasNextLine()) sb.append("\n");
        }
        String input = sb.toString();
        %s solver = new %s();
        System.out.println(solver.%s(%s));
    }
`, lang.RunnerContainer, lang.RunnerContainer, functionName, arg)
}

func csharpEntryPoint(lang langs.Language, functionName, firstType string) string {
	arg := "input"
	switch {
	case isStringArray(firstType):
		arg = "input.Trim().Split((char[])null, System.StringSplitOptions.RemoveEmptyEntries)"
	case isIntType(firstType):
		arg = "int.Parse(input.Trim())"
	}
	return fmt.Sprintf(`    static void Main(string[] args) {
        string input = System.Console.In.ReadToEnd();
        %s solver = new %s();
        System.Console.WriteLine(solver.%s(%s));
    }
`, lang.RunnerContainer, lang.RunnerContainer, functionName, arg)
}

// injectBeforeFinalBrace places the entry point just before the container's
// closing brace, preserving all user code exactly.
func injectBeforeFinalBrace(code, entry string) string {
	idx := strings.LastIndex(code, "}")
	if idx < 0 {
		return code + entry
	}
	return code[:idx] + entry + code[idx:]
}

func wrapPython(code string, lang langs.Language, functionName, firstType string) string {
	if lang.EntryRe != nil && lang.EntryRe.MatchString(code) {
		return code
	}
	arg := "_data"
	switch {
	case isStringArray(firstType):
		arg = "_data.split()"
	case isIntType(firstType):
		arg = "int(_data.strip())"
	}
	return code + fmt.Sprintf(`

import sys
_data = sys.stdin.read()
print(%s(%s))
`, functionName, arg)
}

func wrapCpp(code string, lang langs.Language, functionName string) string {
	if lang.EntryRe != nil && lang.EntryRe.MatchString(code) {
		return code
	}
	return code + fmt.Sprintf(`

#include <iostream>
#include <iterator>
#include <string>
int main() {
    std::string input((std::istreambuf_iterator<char>(std::cin)),
                      std::istreambuf_iterator<char>());
    std::cout << %s(input) << std::endl;
    return 0;
}
`, functionName)
}

func wrapC(code string, lang langs.Language, functionName string) string {
	if lang.EntryRe != nil && lang.EntryRe.MatchString(code) {
		return code
	}
	return code + fmt.Sprintf(`

#include <stdio.h>
int main(void) {
    static char input[1 << 20];
    size_t n = fread(input, 1, sizeof(input) - 1, stdin);
    input[n] = '\0';
    printf("%%s\n", %s(input));
    return 0;
}
`, functionName)
}

func wrapJavaScript(code, functionName, firstType string) string {
	arg := "_data"
	switch {
	case isStringArray(firstType):
		arg = "_data.trim().split(/\\s+/)"
	case isIntType(firstType):
		arg = "parseInt(_data.trim(), 10)"
	}
	return code + fmt.Sprintf(`

const _data = require("fs").readFileSync(0, "utf8");
console.log(%s(%s));
`, functionName, arg)
}

func isStringArray(t string) bool {
	norm := strings.ToLower(strings.ReplaceAll(t, " ", ""))
	switch norm {
	case "string[]", "str[]", "[]string", "list<string>", "array<string>", "list[str]":
		return true
	}
	return false
}

func isIntType(t string) bool {
	norm := strings.ToLower(strings.TrimSpace(t))
	return norm == "int" || norm == "integer" || norm == "long"
}
