package flight

import (
	"fmt"

	"github.com/hugr-lab/rowfilter/internal/msgpack"
)

// TicketData is the decoded content of a Flight ticket.
// Tickets are MessagePack maps so DoGet can be replayed without GetFlightInfo.
type TicketData struct {
	// Table is the catalog table name.
	Table string `msgpack:"table"`

	// Filter is the filter text; empty selects every row.
	Filter string `msgpack:"filter,omitempty"`

	// Columns to project (optional, nil means all columns).
	Columns []string `msgpack:"columns,omitempty"`
}

// EncodeTicket creates an opaque ticket.
func EncodeTicket(td TicketData) ([]byte, error) {
	if td.Table == "" {
		return nil, fmt.Errorf("table name cannot be empty")
	}
	data, err := msgpack.Encode(td)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ticket: %w", err)
	}
	return data, nil
}

// DecodeTicket parses a ticket produced by EncodeTicket.
func DecodeTicket(ticketBytes []byte) (*TicketData, error) {
	if len(ticketBytes) == 0 {
		return nil, fmt.Errorf("ticket cannot be empty")
	}

	var td TicketData
	if err := msgpack.Decode(ticketBytes, &td); err != nil {
		return nil, fmt.Errorf("failed to decode ticket: %w", err)
	}
	if td.Table == "" {
		return nil, fmt.Errorf("decoded ticket has empty table name")
	}
	return &td, nil
}
