package domain_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestParseTicketType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   domain.TicketType
		wantOK bool
	}{
		{"ADULT", domain.TicketTypeAdult, true},
		{"child", domain.TicketTypeChild, true},
		{" Infant \n", domain.TicketTypeInfant, true},
		{"SENIOR", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := domain.ParseTicketType(tt.in)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTicketType_JSON(t *testing.T) {
	raw, err := json.Marshal(domain.TicketLine{Type: domain.TicketTypeChild, Quantity: 2})
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"CHILD","quantity":2}`, string(raw))

	var line domain.TicketLine
	require.NoError(t, json.Unmarshal([]byte(`{"type":"VIP","quantity":1}`), &line))
	require.False(t, line.Type.Valid())

	for _, raw := range []string{`3`, `null`, `true`, `{"name":"ADULT"}`, `["ADULT"]`} {
		line = domain.TicketLine{Type: domain.TicketTypeAdult}
		require.NoError(t, json.Unmarshal([]byte(`{"type":`+raw+`,"quantity":1}`), &line), raw)
		require.False(t, line.Type.Valid(), raw)
		require.Equal(t, 1, line.Quantity)
	}

	_, err = json.Marshal(domain.TicketLine{Type: domain.TicketType(9)})
	require.Error(t, err)
}

func TestTicketCounts(t *testing.T) {
	var c domain.TicketCounts
	require.True(t, c.Add(domain.TicketTypeAdult, 2))
	require.True(t, c.Add(domain.TicketTypeChild, 3))
	require.True(t, c.Add(domain.TicketTypeInfant, 1))
	require.False(t, c.Add(domain.TicketType(0), 4))

	require.Equal(t, 6, c.Total())
	require.Equal(t, 95, c.Amount())
	require.Equal(t, 5, c.Seats())

	s := domain.NewSummary(7, c)
	require.Equal(t, domain.Summary{AccountID: 7, Tickets: c, Amount: 95, Seats: 5}, s)
}

func TestPurchaseCommand_Requests_KeepsNil(t *testing.T) {
	var cmd domain.PurchaseCommand
	require.NoError(t, json.Unmarshal([]byte(`{"account_id":1,"tickets":[{"type":"ADULT","quantity":1},null]}`), &cmd))

	reqs := cmd.Requests()
	require.Len(t, reqs, 2)
	require.Equal(t, domain.TicketTypeAdult, reqs[0].Type())
	require.Equal(t, 1, reqs[0].Quantity())
	require.Nil(t, reqs[1])

	require.Nil(t, (&domain.PurchaseCommand{}).Requests())
}

func TestPurchaseError_Matching(t *testing.T) {
	err := fmt.Errorf("purchase: %w", domain.NewPurchaseError(domain.ReasonMissingAdult))

	require.True(t, errors.Is(err, domain.ErrInvalidPurchase))
	require.True(t, errors.Is(err, domain.NewPurchaseError(domain.ReasonMissingAdult)))
	require.False(t, errors.Is(err, domain.NewPurchaseError(domain.ReasonExceedsMaximum)))

	r, ok := domain.ReasonOf(err)
	require.True(t, ok)
	require.Equal(t, domain.ReasonMissingAdult, r)

	_, ok = domain.ReasonOf(errors.New("other"))
	require.False(t, ok)
}

func TestReason_CodesAndMessages(t *testing.T) {
	want := map[domain.Reason][2]string{
		domain.ReasonInvalidAccount:     {"InvalidAccount", "Invalid account ID"},
		domain.ReasonNoTicketsRequested: {"NoTicketsRequested", "No ticket requested"},
		domain.ReasonInvalidQuantity:    {"InvalidQuantity", "Invalid Ticket Quantity"},
		domain.ReasonUnknownCategory:    {"UnknownCategory", "Unknown ticket type"},
		domain.ReasonExceedsMaximum:     {"ExceedsMaximum", "Cannot purchase more than 25 tickets"},
		domain.ReasonMissingAdult:       {"MissingAdult", "Child/Infant tickets cannot be purchased without an Adult ticket"},
		domain.ReasonInfantExceedsAdult: {"InfantExceedsAdult", "An Infant must be accompanied by an Adult"},
	}

	require.Len(t, domain.Reasons(), len(want))
	for _, r := range domain.Reasons() {
		require.Equal(t, want[r][0], r.Code())
		require.Equal(t, want[r][1], r.Message())
		require.Equal(t, want[r][1], domain.NewPurchaseError(r).Error())
	}
}
