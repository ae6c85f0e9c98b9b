package antrag

import (
	"bufio"
	"io"
	"strings"

	"github.com/piratetools42/antragsbuch/pkg/errors"
)

// AgendaOrder is the ordered list of motion ids on the agenda ("Tagesordnung").
type AgendaOrder []string

// ReadAgendaOrder reads one entry per line; the id is the first
// whitespace-delimited token. Empty lines keep their slot so positions match
// line numbers.
func ReadAgendaOrder(r io.Reader) (AgendaOrder, error) {
	var order AgendaOrder
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		var id string
		if fields := strings.Fields(scanner.Text()); len(fields) > 0 {
			id = fields[0]
		}
		order = append(order, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapParse("text", "", err)
	}
	return order, nil
}

// Position returns the 1-based position of id, or 0 if it is not on the agenda.
func (o AgendaOrder) Position(id string) int {
	if id == "" {
		return 0
	}
	for i, entry := range o {
		if entry == id {
			return i + 1
		}
	}
	return 0
}
