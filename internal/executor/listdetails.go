package executor

import "runtime"

// ListDetailsTemplate synthesizes the batched template --list-details/-l
// expands to: a platform ls-family invocation with fixed, colorized,
// human-readable options, followed by the accepted paths.
func ListDetailsTemplate() Template {
	if runtime.GOOS == "windows" {
		return Template{Tokens: []string{"cmd", "/c", "dir"}}
	}
	return Template{Tokens: []string{"ls", "-l", "--color=always", "-h", "-d"}}
}
