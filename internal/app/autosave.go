package app

import (
	"log"

	"github.com/robfig/cron/v3"
)

// autosaveSchedule is how often the dirty document gets written back.
const autosaveSchedule = "@every 30s"

// autosaver periodically saves the open board when it has unsaved changes.
// The save guard inside SaveBoard keeps a slow write from stacking with the
// next tick.
type autosaver struct {
	app  *App
	cron *cron.Cron
}

func newAutosaver(a *App) *autosaver {
	return &autosaver{app: a, cron: cron.New()}
}

func (s *autosaver) Start() {
	s.cron.AddFunc(autosaveSchedule, s.tick)
	s.cron.Start()
}

// Stop halts the schedule; a tick already running completes.
func (s *autosaver) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *autosaver) tick() {
	s.app.mu.Lock()
	dirty := s.app.dirty && s.app.doc != nil
	s.app.mu.Unlock()
	if !dirty {
		return
	}
	if err := s.app.SaveBoard(); err != nil {
		log.Printf("autosave: %v", err)
	}
}
