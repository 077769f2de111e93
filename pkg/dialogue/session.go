package dialogue

// Session is the per-conversation state. It lives only as long as the
// conversation; durable facts go through the record store instead.
type Session struct {
	// ID is the host-assigned conversation id.
	ID string

	// Mode is the active flow, or "" until the user picks one.
	Mode Mode

	// Stage is the current position in the active mode's stage order.
	Stage Stage

	// Slots holds collected field values. A field is filled once its
	// key is present; flows fill the first missing field each turn.
	Slots map[FieldName]any

	// Partial accumulates values for a repeating slot until its stop
	// keyword arrives, at which point the list moves into Slots.
	Partial map[FieldName][]string

	// Subject is the resolved content entry key the mode is operating
	// on, cleared after each use.
	Subject string

	// Retries counts consecutive failed attempts per stage.
	Retries map[Stage]int

	// Data is scratch state the mode's hooks share across turns
	// (e.g. the fraud case id resolved at mode entry).
	Data map[string]string

	// Ended marks a session that reached its goodbye or was terminated
	// after an unrecoverable error.
	Ended bool
}

// NewSession creates an empty session in the pre-mode state.
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		Slots:   make(map[FieldName]any),
		Partial: make(map[FieldName][]string),
		Retries: make(map[Stage]int),
		Data:    make(map[string]string),
	}
}

// clone deep-copies the session so a turn can be applied all-or-nothing.
func (s *Session) clone() *Session {
	out := &Session{
		ID:      s.ID,
		Mode:    s.Mode,
		Stage:   s.Stage,
		Subject: s.Subject,
		Ended:   s.Ended,
		Slots:   make(map[FieldName]any, len(s.Slots)),
		Partial: make(map[FieldName][]string, len(s.Partial)),
		Retries: make(map[Stage]int, len(s.Retries)),
		Data:    make(map[string]string, len(s.Data)),
	}
	for k, v := range s.Slots {
		out.Slots[k] = v
	}
	for k, v := range s.Partial {
		items := make([]string, len(v))
		copy(items, v)
		out.Partial[k] = items
	}
	for k, v := range s.Retries {
		out.Retries[k] = v
	}
	for k, v := range s.Data {
		out.Data[k] = v
	}
	return out
}

// firstUnfilled returns the index of the first slot without a value, or
// -1 when every slot is filled.
func (s *Session) firstUnfilled(m *ModeSpec) int {
	for i := range m.Slots {
		if _, ok := s.Slots[m.Slots[i].Name]; !ok {
			return i
		}
	}
	return -1
}

// resetMode clears per-mode progress for a fresh pass through the mode.
func (s *Session) resetMode() {
	s.Slots = make(map[FieldName]any)
	s.Partial = make(map[FieldName][]string)
	s.Retries = make(map[Stage]int)
	s.Subject = ""
}
