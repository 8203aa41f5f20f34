package utils

import (
	"strings"

	"github.com/erikdubbelboer/gspt"
)

// SetProcTitle sets the process title shown by ps, joining the non-empty
// parts with spaces, e.g. "keyinjectd [ready]".
func SetProcTitle(parts ...string) {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return
	}
	gspt.SetProcTitle(strings.Join(kept, " "))
}
