package booking

import (
	"fmt"
	"time"
)

type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// SlotWindow is a pitch's daily operating window split into fixed-width slots.
// Open and Close are offsets from midnight.
type SlotWindow struct {
	Open  time.Duration
	Close time.Duration
	Width time.Duration
}

func DefaultSlotWindow() SlotWindow {
	return SlotWindow{Open: 8 * time.Hour, Close: 22 * time.Hour, Width: time.Hour}
}

// ParseSlotWindow builds a window from "HH:MM" bounds and a width, and validates it.
func ParseSlotWindow(open, close string, width time.Duration) (SlotWindow, error) {
	o, err := time.Parse(HourLayout, open)
	if err != nil {
		return SlotWindow{}, fmt.Errorf("invalid slot open time %q: %w", open, err)
	}
	c, err := time.Parse(HourLayout, close)
	if err != nil {
		return SlotWindow{}, fmt.Errorf("invalid slot close time %q: %w", close, err)
	}
	w := SlotWindow{
		Open:  time.Duration(o.Hour())*time.Hour + time.Duration(o.Minute())*time.Minute,
		Close: time.Duration(c.Hour())*time.Hour + time.Duration(c.Minute())*time.Minute,
		Width: width,
	}
	return w, w.Validate()
}

func (w SlotWindow) Validate() error {
	if w.Width <= 0 {
		return fmt.Errorf("slot width must be positive, got %s", w.Width)
	}
	if w.Close <= w.Open {
		return fmt.Errorf("slot window closes (%s) before it opens (%s)", w.Close, w.Open)
	}
	if (w.Close-w.Open)%w.Width != 0 {
		return fmt.Errorf("slot width %s does not divide the window %s-%s evenly", w.Width, w.Open, w.Close)
	}
	return nil
}

// Starts returns every slot start as HH:MM, in order.
func (w SlotWindow) Starts() []string {
	var starts []string
	for t := w.Open; t < w.Close; t += w.Width {
		starts = append(starts, fmt.Sprintf("%02d:%02d", int(t.Hours()), int(t.Minutes())%60))
	}
	return starts
}

// Contains reports whether hour is one of the slot starts in the window.
func (w SlotWindow) Contains(hour string) bool {
	for _, start := range w.Starts() {
		if start == hour {
			return true
		}
	}
	return false
}

// Availability marks each slot busy iff a CONFIRMED reservation starts at it.
// Only exact start-time matches count as conflicts.
func (w SlotWindow) Availability(reservations []Reservation) []Slot {
	busy := make(map[string]bool)
	for _, r := range reservations {
		if r.Status == ReservationConfirmed {
			busy[r.Hour] = true
		}
	}

	starts := w.Starts()
	slots := make([]Slot, 0, len(starts))
	for _, s := range starts {
		slots = append(slots, Slot{Time: s, Available: !busy[s]})
	}
	return slots
}
