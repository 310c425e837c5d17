package http

import "github.com/codeview/codeview-server/internal/store"

// defaultStarterCode returns the built-in editor seed for a language.
func defaultStarterCode(language string) string {
	switch language {
	case store.LangJavaScript:
		return `// Welcome to CodeView Interview Platform
// Write your solution below

function solution(input) {
  // Your code here
  return input;
}

// Test your solution
console.log(solution("Hello, World!"));
`
	case store.LangPython:
		return `# Welcome to CodeView Interview Platform
# Write your solution below

def solution(input):
    # Your code here
    return input

# Test your solution
print(solution("Hello, World!"))
`
	case store.LangJava:
		return `// Welcome to CodeView Interview Platform
// Write your solution below

public class Solution {
    public static void main(String[] args) {
        System.out.println(solution("Hello, World!"));
    }

    public static String solution(String input) {
        // Your code here
        return input;
    }
}
`
	case store.LangCPP:
		return `// Welcome to CodeView Interview Platform
// Write your solution below

#include <iostream>
#include <string>
using namespace std;

string solution(string input) {
    // Your code here
    return input;
}

int main() {
    cout << solution("Hello, World!") << endl;
    return 0;
}
`
	case store.LangGo:
		return `// Welcome to CodeView Interview Platform
// Write your solution below

package main

import "fmt"

func solution(input string) string {
    // Your code here
    return input
}

func main() {
    fmt.Println(solution("Hello, World!"))
}
`
	case store.LangRuby:
		return `# Welcome to CodeView Interview Platform
# Write your solution below

def solution(input)
  # Your code here
  input
end

# Test your solution
puts solution("Hello, World!")
`
	default:
		return "// Start coding here..."
	}
}
