// Package vmix builds requests for the vMix HTTP function API.
//
// The API is a flat GET endpoint, /api/?Function=<name>&Input=<input>&Duration=<ms>.
// The response body carries nothing the caller needs; only transport success matters.
package vmix

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// APIPath is the path of the function endpoint.
	APIPath = "/api/"
	// DefaultPort is the standard vMix web controller port.
	DefaultPort = 8088

	// MinOverlayChannel and MaxOverlayChannel bound the overlay channels.
	MinOverlayChannel = 1
	MaxOverlayChannel = 4

	// BlackInput is the input faded to on stop.
	BlackInput = "Black"

	overlayPrefix = "OverlayInput"
)

// Function names understood by the device.
const (
	FunctionActiveInput  = "ActiveInput"
	FunctionPreviewInput = "PreviewInput"
	FunctionCut          = "Cut"
	FunctionFade         = "Fade"
)

// ErrMissingFunction is returned when a raw query has no Function parameter.
var ErrMissingFunction = errors.New("vmix: missing Function parameter")

// Command is one function call against the device.
type Command struct {
	Function string
	Input    string
	Duration time.Duration // Sent in milliseconds; omitted when zero
}

// ValidOverlayChannel reports whether ch is an addressable overlay channel.
func ValidOverlayChannel(ch int) bool {
	return ch >= MinOverlayChannel && ch <= MaxOverlayChannel
}

// OverlayOnFunction returns the function name that shows an input on overlay ch.
func OverlayOnFunction(ch int) string {
	return fmt.Sprintf("OverlayInput%dOn", ch)
}

// OverlayOffFunction returns the function name that clears overlay ch.
func OverlayOffFunction(ch int) string {
	return fmt.Sprintf("OverlayInput%dOff", ch)
}

// OverlayChannel returns the channel number addressed by an overlay function
// such as "OverlayInput2On" or "OverlayInput3Off". ok is false for functions
// that do not address an overlay channel. The number is not range checked.
func OverlayChannel(function string) (ch int, ok bool) {
	rest, found := strings.CutPrefix(function, overlayPrefix)
	if !found {
		return 0, false
	}
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ActiveInput switches program output straight to input.
func ActiveInput(input string) Command {
	return Command{Function: FunctionActiveInput, Input: input}
}

// PreviewInput loads input into preview.
func PreviewInput(input string) Command {
	return Command{Function: FunctionPreviewInput, Input: input}
}

// Cut swaps preview and program.
func Cut() Command {
	return Command{Function: FunctionCut}
}

// FadeToBlack fades program output to the black input.
func FadeToBlack(d time.Duration) Command {
	return Command{Function: FunctionFade, Input: BlackInput, Duration: d}
}

// Values encodes the command as query parameters.
func (c Command) Values() url.Values {
	v := url.Values{}
	v.Set("Function", c.Function)
	if c.Input != "" {
		v.Set("Input", c.Input)
	}
	if c.Duration > 0 {
		v.Set("Duration", strconv.FormatInt(c.Duration.Milliseconds(), 10))
	}
	return v
}

// URL returns the full request URL for the command against host:port.
func (c Command) URL(address string) string {
	u := url.URL{
		Scheme:   "http",
		Host:     address,
		Path:     APIPath,
		RawQuery: c.Values().Encode(),
	}
	return u.String()
}

// String renders the command for logs.
func (c Command) String() string {
	return c.Values().Encode()
}

// ParseCommand decodes a raw query string such as "Function=Cut".
func ParseCommand(raw string) (Command, error) {
	v, err := url.ParseQuery(raw)
	if err != nil {
		return Command{}, fmt.Errorf("vmix: parse command: %w", err)
	}
	cmd := Command{Function: v.Get("Function"), Input: v.Get("Input")}
	if cmd.Function == "" {
		return Command{}, ErrMissingFunction
	}
	if d := v.Get("Duration"); d != "" {
		ms, err := strconv.Atoi(d)
		if err != nil || ms < 0 {
			return Command{}, fmt.Errorf("vmix: invalid Duration %q", d)
		}
		cmd.Duration = time.Duration(ms) * time.Millisecond
	}
	return cmd, nil
}
