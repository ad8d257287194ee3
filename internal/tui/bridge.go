package tui

import (
	"sync"

	"stockview/internal/viewer"

	tea "github.com/charmbracelet/bubbletea"
)

type snapshotMsg struct{ snap viewer.Snapshot }

type noticeMsg struct{ notice viewer.Notice }

// Bridge is the controller's Renderer. It forwards snapshots and notices
// into the running program; nothing is delivered before Attach.
type Bridge struct {
	mu      sync.Mutex
	program *tea.Program
}

func NewBridge() *Bridge {
	return &Bridge{}
}

func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	b.program = p
	b.mu.Unlock()
}

func (b *Bridge) Render(s viewer.Snapshot) {
	b.send(snapshotMsg{snap: s})
}

func (b *Bridge) Notify(n viewer.Notice) {
	b.send(noticeMsg{notice: n})
}

// send never blocks: the controller may call in from inside Update. Out of
// order delivery is resolved by Snapshot.Version.
func (b *Bridge) send(msg tea.Msg) {
	b.mu.Lock()
	p := b.program
	b.mu.Unlock()
	if p != nil {
		go p.Send(msg)
	}
}
