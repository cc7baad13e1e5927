package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"panelshell/internal/bus"
	"panelshell/internal/jsonutil"
	"panelshell/internal/panels"
	"panelshell/internal/ui/textutil"
)

// Topics exchanged with the media collaborators.
const (
	TopicTVClip      = "tv-clip"
	TopicTVPlayback  = "tv-playback"
	TopicVideoStatus = "video-status"
	TopicVideoMuted  = "video-muted"
)

// tvKind shows the clip announced on tv-clip and lets the user pause it.
// Clips arrive on the publisher's goroutine; the play button follows on the
// next Refresh.
type tvKind struct {
	panels.BaseKind
	deps KindDeps

	mu      sync.Mutex
	url     string
	playing bool
	stale   bool // button lags playing
	button  *panels.Button
	unsub   func()
}

func newTVKind(deps KindDeps) *tvKind {
	return &tvKind{deps: deps}
}

func (k *tvKind) Init(ctx context.Context, p *panels.Panel) error {
	k.button = p.AddIconButton("play", "▶", "Play", k.TogglePlay)
	if k.deps.Bus != nil {
		k.unsub = k.deps.Bus.Subscribe(TopicTVClip, k.onClip)
	}
	return nil
}

func (k *tvKind) Mount(slot *panels.Node) { slot.Content = k }

func (k *tvKind) LayoutFields() map[string]any {
	k.mu.Lock()
	defer k.mu.Unlock()
	return map[string]any{"url": k.url}
}

func (k *tvKind) ApplyLayoutFields(fields map[string]any) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.url = jsonutil.GetStringOr(fields, "url", k.url)
}

func (k *tvKind) Dispose() {
	if k.unsub != nil {
		k.unsub()
		k.unsub = nil
	}
}

func (k *tvKind) onClip(msg bus.Message) {
	url := clipURL(msg.Payload)
	if url == "" {
		return
	}
	k.mu.Lock()
	k.url = url
	k.playing = true
	k.stale = true
	k.mu.Unlock()
}

// Refresh brings the play button in line with the playback state. The app
// calls it on the UI goroutine.
func (k *tvKind) Refresh() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.stale {
		k.syncButton()
	}
}

// TogglePlay flips playback and announces the new state.
func (k *tvKind) TogglePlay() {
	k.mu.Lock()
	if k.url == "" {
		k.mu.Unlock()
		return
	}
	k.playing = !k.playing
	k.syncButton()
	state := map[string]any{"url": k.url, "playing": k.playing}
	k.mu.Unlock()
	if k.deps.Bus != nil {
		k.deps.Bus.Publish(TopicTVPlayback, state)
	}
}

func (k *tvKind) syncButton() {
	k.stale = false
	if k.button == nil {
		return
	}
	if k.playing {
		k.button.SetIcon("⏸", "Pause")
	} else {
		k.button.SetIcon("▶", "Play")
	}
}

func (k *tvKind) Render(width, height int) string {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.url == "" {
		return "No clip"
	}
	state := "paused"
	if k.playing {
		state = "playing"
	}
	return textutil.Truncate(k.url, width) + "\n" + state
}

func clipURL(payload any) string {
	switch p := payload.(type) {
	case string:
		return strings.TrimSpace(p)
	case map[string]any:
		return jsonutil.GetString(p, "url")
	default:
		var v struct {
			URL string `json:"url"`
		}
		if err := jsonutil.Decode(payload, &v, "tv clip"); err != nil {
			return ""
		}
		return v.URL
	}
}

// videoKind shows the status of the class video feed for a room.
type videoKind struct {
	panels.BaseKind
	deps KindDeps

	mu     sync.Mutex
	room   string
	status string
	muted  bool
	button *panels.Button
	unsub  func()
}

func newVideoKind(deps KindDeps) *videoKind {
	return &videoKind{deps: deps, status: "offline"}
}

func (k *videoKind) Init(ctx context.Context, p *panels.Panel) error {
	k.button = p.AddIconButton("mute", "♪", "Mute", k.ToggleMute)
	if k.deps.Bus != nil {
		k.unsub = k.deps.Bus.Subscribe(TopicVideoStatus, k.onStatus)
	}
	return nil
}

func (k *videoKind) Mount(slot *panels.Node) { slot.Content = k }

func (k *videoKind) LayoutFields() map[string]any {
	k.mu.Lock()
	defer k.mu.Unlock()
	return map[string]any{"room": k.room, "muted": k.muted}
}

func (k *videoKind) ApplyLayoutFields(fields map[string]any) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.room = jsonutil.GetStringOr(fields, "room", k.room)
	k.muted = jsonutil.GetBool(fields, "muted", k.muted)
	k.syncButton()
}

func (k *videoKind) Dispose() {
	if k.unsub != nil {
		k.unsub()
		k.unsub = nil
	}
}

func (k *videoKind) onStatus(msg bus.Message) {
	var v struct {
		Room   string `json:"room"`
		Status string `json:"status"`
	}
	if err := jsonutil.Decode(msg.Payload, &v, "video status"); err != nil {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.room != "" && v.Room != "" && v.Room != k.room {
		return
	}
	if v.Room != "" {
		k.room = v.Room
	}
	if v.Status != "" {
		k.status = v.Status
	}
}

// ToggleMute flips the mute flag and announces it.
func (k *videoKind) ToggleMute() {
	k.mu.Lock()
	k.muted = !k.muted
	k.syncButton()
	state := map[string]any{"room": k.room, "muted": k.muted}
	k.mu.Unlock()
	if k.deps.Bus != nil {
		k.deps.Bus.Publish(TopicVideoMuted, state)
	}
}

func (k *videoKind) syncButton() {
	if k.button == nil {
		return
	}
	if k.muted {
		k.button.SetIcon("∅", "Unmute")
	} else {
		k.button.SetIcon("♪", "Mute")
	}
}

func (k *videoKind) Render(width, height int) string {
	k.mu.Lock()
	defer k.mu.Unlock()
	room := k.room
	if room == "" {
		room = "no room"
	}
	line := fmt.Sprintf("%s · %s", room, k.status)
	if k.muted {
		line += " · muted"
	}
	return textutil.Truncate(line, width)
}
