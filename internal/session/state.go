package session

import (
	"fmt"
	"reflect"

	"github.com/mamadbah2/outletdesk/internal/domain/models"
)

// Key names one slot of the session state.
type Key string

// Declared session slots.
const (
	KeyLoggedIn       Key = "logged_in"
	KeyOutlet         Key = "outlet"
	KeyBarcode        Key = "barcode"
	KeyItemName       Key = "item_name"
	KeySupplier       Key = "supplier"
	KeyManualItemName Key = "manual_item_name"
	KeyManualSupplier Key = "manual_supplier"
	KeyLookupResult   Key = "lookup_result"
	KeyFound          Key = "found"
	KeyItems          Key = "items"
	KeyFeedback       Key = "feedback"
	KeyStaffName      Key = "staff_name"
	KeyFlash          Key = "flash"
)

// LookupKeys is the barcode/lookup portion of the state, cleared after each item submission.
var LookupKeys = []Key{KeyBarcode, KeyItemName, KeySupplier, KeyManualItemName, KeyManualSupplier, KeyLookupResult, KeyFound}

// ConfigurationError reports use of an undeclared slot or an uninitialized state.
type ConfigurationError struct {
	Key    Key
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return "session configuration error: " + e.Reason
	}
	return fmt.Sprintf("session configuration error: key %q: %s", e.Key, e.Reason)
}

// Level classifies a flash notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a one-shot message shown on the next page render.
type Notice struct {
	Level   Level
	Message string
}

// State is one user's dashboard session. Fields are the typed view; Get, Set
// and Reset expose the same slots by key.
type State struct {
	LoggedIn       bool
	Outlet         string
	Barcode        string
	ItemName       string
	Supplier       string
	ManualItemName string
	ManualSupplier string
	LookupResult   []models.LookupEntry
	Found          bool
	Items          []models.InventoryRecord
	Feedback       []models.FeedbackRecord
	StaffName      string
	Flash          *Notice

	initialized bool
}

type slot struct {
	ptr   func(s *State) interface{}
	reset func(s *State)
}

var slots = map[Key]slot{
	KeyLoggedIn:       {ptr: func(s *State) interface{} { return &s.LoggedIn }, reset: func(s *State) { s.LoggedIn = false }},
	KeyOutlet:         {ptr: func(s *State) interface{} { return &s.Outlet }, reset: func(s *State) { s.Outlet = "" }},
	KeyBarcode:        {ptr: func(s *State) interface{} { return &s.Barcode }, reset: func(s *State) { s.Barcode = "" }},
	KeyItemName:       {ptr: func(s *State) interface{} { return &s.ItemName }, reset: func(s *State) { s.ItemName = "" }},
	KeySupplier:       {ptr: func(s *State) interface{} { return &s.Supplier }, reset: func(s *State) { s.Supplier = "" }},
	KeyManualItemName: {ptr: func(s *State) interface{} { return &s.ManualItemName }, reset: func(s *State) { s.ManualItemName = "" }},
	KeyManualSupplier: {ptr: func(s *State) interface{} { return &s.ManualSupplier }, reset: func(s *State) { s.ManualSupplier = "" }},
	KeyLookupResult:   {ptr: func(s *State) interface{} { return &s.LookupResult }, reset: func(s *State) { s.LookupResult = []models.LookupEntry{} }},
	KeyFound:          {ptr: func(s *State) interface{} { return &s.Found }, reset: func(s *State) { s.Found = false }},
	KeyItems:          {ptr: func(s *State) interface{} { return &s.Items }, reset: func(s *State) { s.Items = []models.InventoryRecord{} }},
	KeyFeedback:       {ptr: func(s *State) interface{} { return &s.Feedback }, reset: func(s *State) { s.Feedback = []models.FeedbackRecord{} }},
	KeyStaffName:      {ptr: func(s *State) interface{} { return &s.StaffName }, reset: func(s *State) { s.StaffName = "" }},
	KeyFlash:          {ptr: func(s *State) interface{} { return &s.Flash }, reset: func(s *State) { s.Flash = nil }},
}

// Keys returns every declared slot.
func Keys() []Key {
	keys := make([]Key, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	return keys
}

// New returns a state with every slot at its default.
func New() *State {
	s := &State{initialized: true}
	for _, sl := range slots {
		sl.reset(s)
	}
	return s
}

// Get returns the current value of a slot.
func (s *State) Get(key Key) (interface{}, error) {
	sl, err := s.lookup(key)
	if err != nil {
		return nil, err
	}
	return reflect.ValueOf(sl.ptr(s)).Elem().Interface(), nil
}

// Set replaces a slot value. The value type must match the slot's declared type.
func (s *State) Set(key Key, value interface{}) error {
	sl, err := s.lookup(key)
	if err != nil {
		return err
	}

	target := reflect.ValueOf(sl.ptr(s)).Elem()
	if value == nil {
		switch target.Kind() {
		case reflect.Ptr, reflect.Slice:
			if key == KeyLookupResult {
				s.clearMatch()
				return nil
			}
			target.Set(reflect.Zero(target.Type()))
			return nil
		}
		return &ConfigurationError{Key: key, Reason: "nil value for non-nillable slot"}
	}

	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(target.Type()) {
		return &ConfigurationError{Key: key, Reason: fmt.Sprintf("expected %s, got %s", target.Type(), v.Type())}
	}

	switch key {
	case KeyFound, KeyLookupResult:
		return s.setLookup(key, value)
	}

	target.Set(v)
	return nil
}

// Reset restores the named slots to their defaults. With no keys every slot is reset.
func (s *State) Reset(keys ...Key) error {
	if !s.ready() {
		return &ConfigurationError{Reason: "state used before initialization"}
	}
	if len(keys) == 0 {
		keys = Keys()
	}
	for _, k := range keys {
		if _, ok := slots[k]; !ok {
			return &ConfigurationError{Key: k, Reason: "undeclared key"}
		}
	}
	for _, k := range keys {
		slots[k].reset(s)
	}
	return nil
}

// ShowManualEntry reports whether the page should offer manual item fields.
func (s *State) ShowManualEntry() bool {
	return s.Barcode != "" && !s.Found
}

// SetMatch records a successful lookup, keeping the table and flag consistent.
func (s *State) SetMatch(entry models.LookupEntry) {
	s.Found = true
	s.ItemName = entry.ItemName
	s.Supplier = entry.Supplier
	s.LookupResult = []models.LookupEntry{entry}
}

// setLookup keeps the found flag and the lookup table in agreement. A
// non-empty table is a match on its first row; found=true needs a table.
func (s *State) setLookup(key Key, value interface{}) error {
	switch v := value.(type) {
	case bool:
		if !v {
			s.clearMatch()
			return nil
		}
		if len(s.LookupResult) == 0 {
			return &ConfigurationError{Key: key, Reason: "found requires a lookup result"}
		}
		s.Found = true
	case []models.LookupEntry:
		if len(v) == 0 {
			s.clearMatch()
			return nil
		}
		s.SetMatch(v[0])
	}
	return nil
}

func (s *State) clearMatch() {
	s.Found = false
	s.ItemName = ""
	s.Supplier = ""
	s.LookupResult = []models.LookupEntry{}
}

// ClearLookup drops every resolved field and the found flag.
func (s *State) ClearLookup() {
	for _, k := range LookupKeys {
		slots[k].reset(s)
	}
}

// Notify stores a notice for the next render.
func (s *State) Notify(level Level, message string) {
	s.Flash = &Notice{Level: level, Message: message}
}

// TakeFlash returns and clears the pending notice.
func (s *State) TakeFlash() *Notice {
	n := s.Flash
	s.Flash = nil
	return n
}

func (s *State) ready() bool {
	return s != nil && s.initialized
}

func (s *State) lookup(key Key) (slot, error) {
	if !s.ready() {
		return slot{}, &ConfigurationError{Key: key, Reason: "state used before initialization"}
	}
	sl, ok := slots[key]
	if !ok {
		return slot{}, &ConfigurationError{Key: key, Reason: "undeclared key"}
	}
	return sl, nil
}
