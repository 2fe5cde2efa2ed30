package jobserver

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/bgentry/go-netrc/netrc"

	"github.com/nickalie/crawlship/internal/core/target"
)

// applyAuth attaches basic-auth credentials to the request. Explicit target
// credentials win; otherwise a .netrc entry for the URL hostname is used.
// Without either the request goes out unauthenticated.
func (c *Client) applyAuth(req *http.Request, tgt *target.Target) {
	if tgt.Username != "" {
		req.SetBasicAuth(tgt.Username, tgt.Password)
		return
	}

	username, password, ok := c.netrcCredentials(tgt.Hostname())
	if ok {
		req.SetBasicAuth(username, password)
	}
}

func (c *Client) netrcCredentials(hostname string) (string, string, bool) {
	if hostname == "" {
		return "", "", false
	}

	path := c.netrcPath
	if path == "" {
		path = defaultNetrcPath()
	}
	if path == "" {
		return "", "", false
	}

	machine, err := netrc.FindMachine(path, hostname)
	if err != nil || machine == nil || machine.Login == "" {
		return "", "", false
	}
	return machine.Login, machine.Password, true
}

func defaultNetrcPath() string {
	if path := os.Getenv("NETRC"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".netrc")
}
