package chat_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"socratic-tutor/internal/adapter/memory"
	"socratic-tutor/internal/domain"
	"socratic-tutor/internal/usecase/chat"
)

var _ = Describe("Service", func() {
	var (
		ctx    context.Context
		store  *memory.Store
		client *stubClient
		svc    *chat.Service
		ids    int
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.NewStore()
		client = &stubClient{reply: "Great question. What rule applies to powers of x?"}
		ids = 0
		fixed := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

		model := chat.NewModel(client, chat.ModelConfig{Model: "test-model"}, zap.NewNop())
		svc = chat.NewService(store, model, zap.NewNop(),
			chat.WithClock(func() time.Time { return fixed }),
			chat.WithIDGenerator(func() string {
				ids++
				return "msg-" + string(rune('0'+ids))
			}),
		)
	})

	Describe("Submit", func() {
		It("appends the user turn and the model reply", func() {
			reply, err := svc.Submit(ctx, chat.Input{Text: "What is the derivative of x^2?"})

			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Role).To(Equal(domain.RoleModel))
			Expect(reply.Text).To(Equal("Great question. What rule applies to powers of x?"))
			Expect(reply.HasImage()).To(BeFalse())

			history := svc.Snapshot()
			Expect(history).To(HaveLen(2))
			Expect(history[0].Role).To(Equal(domain.RoleUser))
			Expect(history[0].Text).To(Equal("What is the derivative of x^2?"))
			Expect(history[1]).To(Equal(reply))
			Expect(svc.State()).To(Equal(chat.StateIdle))
		})

		It("sends exactly one user turn for a fresh conversation", func() {
			_, err := svc.Submit(ctx, chat.Input{Text: "What is the derivative of x^2?"})
			Expect(err).NotTo(HaveOccurred())

			requests := client.Requests()
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Turns).To(Equal([]domain.Turn{{
				Role:  domain.RoleUser,
				Parts: []domain.Part{domain.TextPart{Text: "What is the derivative of x^2?"}},
			}}))
		})

		It("resends the whole conversation on the next turn", func() {
			_, err := svc.Submit(ctx, chat.Input{Text: "first"})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Submit(ctx, chat.Input{Text: "second"})
			Expect(err).NotTo(HaveOccurred())

			turns := client.Requests()[1].Turns
			Expect(turns).To(HaveLen(3))
			Expect(turns[0].Parts).To(Equal([]domain.Part{domain.TextPart{Text: "first"}}))
			Expect(turns[1].Role).To(Equal(domain.RoleModel))
			Expect(turns[2].Parts).To(Equal([]domain.Part{domain.TextPart{Text: "second"}}))
			Expect(store.Snapshot()).To(HaveLen(4))
		})

		It("sends an image-only submission as a single inline media part", func() {
			image := &domain.Attachment{
				Data:      "iVBORw0KGgo=",
				Preview:   "data:image/png;base64,iVBORw0KGgo=",
				MediaType: "image/png",
			}

			_, err := svc.Submit(ctx, chat.Input{Image: image})
			Expect(err).NotTo(HaveOccurred())

			turns := client.Requests()[0].Turns
			Expect(turns).To(HaveLen(1))
			Expect(turns[0].Parts).To(Equal([]domain.Part{
				domain.InlineMediaPart{MediaType: "image/png", Data: "iVBORw0KGgo="},
			}))

			stored := svc.Snapshot()[0]
			Expect(stored.Image).To(Equal("data:image/png;base64,iVBORw0KGgo="))
			Expect(stored.Text).To(BeEmpty())
		})

		It("replays a stored image identically on the following turn", func() {
			image := &domain.Attachment{
				Data:      "iVBORw0KGgo=",
				Preview:   "data:image/png;base64,iVBORw0KGgo=",
				MediaType: "image/png",
			}
			_, err := svc.Submit(ctx, chat.Input{Text: "what is this?", Image: image})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Submit(ctx, chat.Input{Text: "go on"})
			Expect(err).NotTo(HaveOccurred())

			first := client.Requests()[0].Turns[0]
			replayed := client.Requests()[1].Turns[0]
			Expect(replayed).To(Equal(first))
		})

		It("trims the text before storing it", func() {
			_, err := svc.Submit(ctx, chat.Input{Text: "  2 + 2?  \n"})

			Expect(err).NotTo(HaveOccurred())
			Expect(svc.Snapshot()[0].Text).To(Equal("2 + 2?"))
		})

		It("assigns unique ids and increasing timestamps", func() {
			_, err := svc.Submit(ctx, chat.Input{Text: "one"})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Submit(ctx, chat.Input{Text: "two"})
			Expect(err).NotTo(HaveOccurred())

			history := svc.Snapshot()
			seen := map[string]bool{}
			for i, msg := range history {
				Expect(seen).NotTo(HaveKey(msg.ID))
				seen[msg.ID] = true
				if i > 0 {
					Expect(msg.Timestamp.After(history[i-1].Timestamp)).To(BeTrue())
				}
			}
		})
	})

	Describe("guards", func() {
		It("ignores an empty submission", func() {
			for _, text := range []string{"", "   ", "\n\t"} {
				_, err := svc.Submit(ctx, chat.Input{Text: text})

				Expect(err).To(MatchError(chat.ErrEmptyMessage))
			}
			Expect(store.Snapshot()).To(BeEmpty())
			Expect(svc.State()).To(Equal(chat.StateIdle))
			Expect(client.Requests()).To(BeEmpty())
		})

		It("refuses a second submission while awaiting a reply", func() {
			client.started = make(chan struct{}, 1)
			client.block = make(chan struct{})

			done := make(chan error, 1)
			go func() {
				_, err := svc.Submit(ctx, chat.Input{Text: "first"})
				done <- err
			}()
			Eventually(client.started).Should(Receive())

			Expect(svc.Awaiting()).To(BeTrue())
			_, err := svc.Submit(ctx, chat.Input{Text: "second"})
			Expect(err).To(MatchError(chat.ErrBusy))
			Expect(store.Snapshot()).To(HaveLen(1))
			Expect(svc.Awaiting()).To(BeTrue())

			close(client.block)
			Eventually(done).Should(Receive(BeNil()))
			Expect(svc.Awaiting()).To(BeFalse())
			Expect(store.Snapshot()).To(HaveLen(2))
			Expect(client.Requests()).To(HaveLen(1))
		})
	})

	Describe("failures", func() {
		It("keeps the user turn and adds no reply when the model fails", func() {
			client.err = errors.New("network unreachable")

			_, err := svc.Submit(ctx, chat.Input{Text: "What is 3 * 7?"})

			var invocationErr *chat.ModelInvocationError
			Expect(errors.As(err, &invocationErr)).To(BeTrue())
			history := svc.Snapshot()
			Expect(history).To(HaveLen(1))
			Expect(history[0].Role).To(Equal(domain.RoleUser))
			Expect(svc.State()).To(Equal(chat.StateIdle))
		})

		It("stays usable after a failure", func() {
			client.err = errors.New("quota exceeded")
			_, err := svc.Submit(ctx, chat.Input{Text: "try"})
			Expect(err).To(HaveOccurred())

			client.err = nil
			_, err = svc.Submit(ctx, chat.Input{Text: "try again"})

			Expect(err).NotTo(HaveOccurred())
			Expect(store.Snapshot()).To(HaveLen(3))
		})

		It("stores the fallback text when the model returns nothing", func() {
			client.reply = ""

			reply, err := svc.Submit(ctx, chat.Input{Text: "hello?"})

			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Text).To(Equal(chat.FallbackReply))
			Expect(svc.Snapshot()[1].Text).To(Equal(chat.FallbackReply))
		})

		It("surfaces a corrupted stored attachment and returns to idle", func() {
			Expect(store.Append(domain.Message{ID: "bad", Role: domain.RoleUser, Image: "garbage"})).To(Succeed())

			_, err := svc.Submit(ctx, chat.Input{Text: "next"})

			Expect(err).To(MatchError(domain.ErrMalformedAttachment))
			Expect(client.Requests()).To(BeEmpty())
			Expect(svc.State()).To(Equal(chat.StateIdle))
			Expect(store.Snapshot()).To(HaveLen(2))
		})
	})

	It("reports the model name", func() {
		Expect(svc.ModelName()).To(Equal("test-model"))
	})
})

var _ = Describe("Sessions", func() {
	It("keeps one conversation per key", func() {
		client := &stubClient{reply: "ok"}
		model := chat.NewModel(client, chat.ModelConfig{Model: "test-model"}, zap.NewNop())
		sessions := chat.NewSessions(func() domain.ConversationStore { return memory.NewStore() }, model, zap.NewNop())

		a := sessions.Get("chat-1")
		b := sessions.Get("chat-2")
		Expect(sessions.Get("chat-1")).To(BeIdenticalTo(a))
		Expect(b).NotTo(BeIdenticalTo(a))
		Expect(sessions.Len()).To(Equal(2))

		_, err := a.Submit(context.Background(), chat.Input{Text: "hi"})
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Snapshot()).To(HaveLen(2))
		Expect(b.Snapshot()).To(BeEmpty())
	})
})
