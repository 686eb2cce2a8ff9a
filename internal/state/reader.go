// Package state reduces host widget state to the bank open flag.
package state

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/thealiamalia/nyami-bank-state/internal/host"
)

// Reader answers whether the bank interface is open.
//
// BankOpen never fails: host errors, a missing widget, and panics raised inside
// the host client all read as false. Reads are unsynchronized snapshots of host
// state and may lag the host by a frame.
type Reader struct {
	client host.Client
	widget host.ComponentID
	log    zerolog.Logger

	last atomic.Bool
}

// NewReader creates a reader watching the bank container widget.
func NewReader(client host.Client, log zerolog.Logger) *Reader {
	return &Reader{
		client: client,
		widget: host.BankContainer,
		log:    log,
	}
}

// BankOpen queries the host and returns true iff the widget exists and is not hidden.
func (r *Reader) BankOpen() bool {
	open := r.query()
	if prev := r.last.Swap(open); prev != open {
		r.log.Debug().Bool("bankOpen", open).Msg("bank state changed")
	}
	return open
}

// Last returns the value of the most recent BankOpen call.
func (r *Reader) Last() bool {
	return r.last.Load()
}

func (r *Reader) query() (open bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Debug().Interface("panic", rec).Msg("widget lookup panicked")
			open = false
		}
	}()

	if r.client == nil {
		return false
	}

	w, err := r.client.Widget(r.widget)
	if err != nil {
		r.log.Debug().Err(err).Stringer("widget", r.widget).Msg("widget lookup failed")
		return false
	}
	return w != nil && !w.Hidden
}
