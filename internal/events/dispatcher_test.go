package events_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wajir-county/ict-helpdesk/internal/events"
)

var _ = Describe("Dispatcher", func() {
	It("delivers events only to subscribers of that type", func() {
		dispatcher := events.NewInMemoryDispatcher()
		var seen []events.EventType
		dispatcher.Subscribe(events.EventUserSignedIn, func(_ context.Context, e events.Event) error {
			seen = append(seen, e.Type)
			return nil
		})

		Expect(dispatcher.Publish(context.Background(), events.Event{Type: events.EventUserSignedOut})).To(Succeed())
		Expect(dispatcher.Publish(context.Background(), events.Event{Type: events.EventUserSignedIn})).To(Succeed())
		Expect(seen).To(Equal([]events.EventType{events.EventUserSignedIn}))
	})

	It("keeps calling handlers after one fails and reports the failure", func() {
		dispatcher := events.NewInMemoryDispatcher()
		boom := errors.New("smtp down")
		calls := 0
		dispatcher.Subscribe(events.EventTicketCreated, func(context.Context, events.Event) error {
			calls++
			return boom
		})
		dispatcher.Subscribe(events.EventTicketCreated, func(context.Context, events.Event) error {
			calls++
			return nil
		})

		err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketCreated})
		Expect(err).To(MatchError(boom))
		Expect(calls).To(Equal(2))
	})
})
