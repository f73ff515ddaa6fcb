// Package app holds the application state shared by the windows: the device
// being configured and its illustration.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"piper/data"
	"piper/internal/svgdoc"
)

// Device is the device currently shown.
type Device struct {
	// Model is the bus:vid:pid:version string, empty for a file opened directly.
	Model string
	// Name is the device name from the lookup table, or the file name.
	Name string
	// File is the illustration file name within the svg directory, or the
	// path of a file opened directly.
	File string
	// Path is the illustration's path on disk, empty when it is built in.
	Path     string
	Document *svgdoc.Document
}

// EventType identifies different application events.
type EventType int

const (
	// EventDeviceLoaded carries the new Device.
	EventDeviceLoaded EventType = iota
	// EventDeviceFailed carries the error of a failed load or reload.
	EventDeviceFailed
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the current device and the illustration lookup table.
type State struct {
	mu sync.RWMutex

	svgDir string
	fsys   fs.FS
	lookup *svgdoc.Lookup
	device Device
	loaded bool
	logger *log.Logger

	listeners map[EventType][]EventListener
}

// NewState creates the state for illustrations in svgDir, or for the built-in
// illustrations when svgDir is empty.
func NewState(svgDir string, logger *log.Logger) (*State, error) {
	if logger == nil {
		logger = log.Default()
	}

	var fsys fs.FS
	if svgDir == "" {
		sub, err := fs.Sub(data.SVGs, "svgs")
		if err != nil {
			return nil, err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(svgDir)
	}

	lookup, err := svgdoc.LoadLookup(fsys)
	if err != nil {
		return nil, err
	}

	return &State{
		svgDir:    svgDir,
		fsys:      fsys,
		lookup:    lookup,
		logger:    logger,
		listeners: make(map[EventType][]EventListener),
	}, nil
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Device returns the current device and whether one has been loaded.
func (s *State) Device() (Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.device, s.loaded
}

// LoadDevice resolves model through the lookup table and loads its
// illustration. Unknown models get the fallback illustration.
func (s *State) LoadDevice(model string) error {
	doc, file, err := s.lookup.Open(model)
	if err != nil {
		return s.fail(fmt.Errorf("load illustration for %q: %w", model, err))
	}

	name := "Unknown device"
	if entry, ok := s.lookup.Find(model); ok {
		name = entry.Name
	}
	path := ""
	if s.svgDir != "" {
		path = filepath.Join(s.svgDir, file)
	}

	s.set(Device{Model: model, Name: name, File: file, Path: path, Document: doc})
	return nil
}

// LoadFile loads an illustration from disk without going through the lookup table.
func (s *State) LoadFile(path string) error {
	doc, err := svgdoc.LoadFile(path)
	if err != nil {
		return s.fail(err)
	}
	s.set(Device{Name: filepath.Base(path), File: path, Path: path, Document: doc})
	return nil
}

// Reload reads the current illustration again, keeping the device identity.
func (s *State) Reload() error {
	current, ok := s.Device()
	if !ok {
		return errors.New("no device loaded")
	}
	if current.Model == "" {
		return s.LoadFile(current.Path)
	}
	return s.LoadDevice(current.Model)
}

func (s *State) set(d Device) {
	s.mu.Lock()
	s.device = d
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("device loaded", "name", d.Name, "file", d.File)
	s.Emit(EventDeviceLoaded, d)
}

func (s *State) fail(err error) error {
	s.logger.Error("device load failed", "err", err)
	s.Emit(EventDeviceFailed, err)
	return err
}
