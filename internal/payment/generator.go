package payment

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const ticketAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Seat rows span A-J with seats 1-50 per row.
const (
	seatRows        = "ABCDEFGHIJ"
	seatsPerRow     = 50
	ticketSuffixLen = 9
)

// GenerateTicketNumber produces a store-lifetime-unique ticket number:
// a millisecond timestamp plus nine uppercase base-36 characters. Two
// collisions require the same millisecond and the same 9-character draw,
// which is negligible at this store's volume.
func GenerateTicketNumber() string {
	suffix := make([]byte, ticketSuffixLen)
	max := big.NewInt(int64(len(ticketAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// fall back to a timestamp-derived index.
			n = big.NewInt(time.Now().UnixNano() % int64(len(ticketAlphabet)))
		}
		suffix[i] = ticketAlphabet[n.Int64()]
	}
	return fmt.Sprintf("TKT-%d-%s", time.Now().UnixMilli(), suffix)
}

// GenerateSeatNumber picks a random row letter and seat index. Seats are not
// deduplicated across tickets of the same event; duplicate assignments are
// possible.
func GenerateSeatNumber() string {
	row, err := rand.Int(rand.Reader, big.NewInt(int64(len(seatRows))))
	if err != nil {
		row = big.NewInt(0)
	}
	seat, err := rand.Int(rand.Reader, big.NewInt(seatsPerRow))
	if err != nil {
		seat = big.NewInt(0)
	}
	return fmt.Sprintf("%c%d", seatRows[row.Int64()], seat.Int64()+1)
}
