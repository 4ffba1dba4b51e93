package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// command resolves the platform launcher for a URL. Split from Open so
// the mapping is testable without spawning anything.
func command(goos, url string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}

// Open launches the user's default browser at url. It returns once the
// launcher process has started; it does not wait for the browser.
func Open(url string) error {
	name, args, err := command(runtime.GOOS, url)
	if err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}
