package chat_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"socratic-tutor/internal/domain"
	"socratic-tutor/internal/usecase/chat"
)

var _ = Describe("BuildTurns", func() {
	var (
		now   time.Time
		image domain.Attachment
	)

	BeforeEach(func() {
		now = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		image = domain.Attachment{
			Data:      "iVBORw0KGgo=",
			Preview:   "data:image/png;base64,iVBORw0KGgo=",
			MediaType: "image/png",
		}
	})

	Context("with an empty history", func() {
		It("emits a single user turn with the text", func() {
			turns, err := chat.BuildTurns(nil, "What is the derivative of x^2?", nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(Equal([]domain.Turn{{
				Role:  domain.RoleUser,
				Parts: []domain.Part{domain.TextPart{Text: "What is the derivative of x^2?"}},
			}}))
		})

		It("emits only an inline media part for an image without text", func() {
			turns, err := chat.BuildTurns(nil, "", &image)

			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(HaveLen(1))
			Expect(turns[0].Parts).To(Equal([]domain.Part{
				domain.InlineMediaPart{MediaType: "image/png", Data: "iVBORw0KGgo="},
			}))
		})

		It("puts the image before the text", func() {
			turns, err := chat.BuildTurns(nil, "Solve this", &image)

			Expect(err).NotTo(HaveOccurred())
			Expect(turns[0].Parts).To(Equal([]domain.Part{
				domain.InlineMediaPart{MediaType: "image/png", Data: "iVBORw0KGgo="},
				domain.TextPart{Text: "Solve this"},
			}))
		})

		It("refuses an empty pending turn", func() {
			_, err := chat.BuildTurns(nil, "", nil)

			Expect(err).To(MatchError(chat.ErrEmptyTurn))
		})
	})

	Context("with prior messages", func() {
		var history []domain.Message

		BeforeEach(func() {
			history = []domain.Message{
				{ID: "1", Role: domain.RoleUser, Text: "Help with this integral", Image: "data:image/jpeg;base64,/9j/4AAQ", Timestamp: now},
				{ID: "2", Role: domain.RoleModel, Text: "What would you pick for u?", Timestamp: now.Add(time.Second)},
				{ID: "3", Role: domain.RoleUser, Image: "data:image/webp;base64,UklGRg==", Timestamp: now.Add(2 * time.Second)},
			}
		})

		It("replays every message in order with its role", func() {
			turns, err := chat.BuildTurns(history, "u = sin x?", nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(HaveLen(4))
			Expect(turns[0].Role).To(Equal(domain.RoleUser))
			Expect(turns[1].Role).To(Equal(domain.RoleModel))
			Expect(turns[2].Role).To(Equal(domain.RoleUser))
			Expect(turns[3]).To(Equal(domain.Turn{
				Role:  domain.RoleUser,
				Parts: []domain.Part{domain.TextPart{Text: "u = sin x?"}},
			}))
		})

		It("splits stored images into media type and payload, image first", func() {
			turns, err := chat.BuildTurns(history, "next", nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(turns[0].Parts).To(Equal([]domain.Part{
				domain.InlineMediaPart{MediaType: "image/jpeg", Data: "/9j/4AAQ"},
				domain.TextPart{Text: "Help with this integral"},
			}))
			Expect(turns[2].Parts).To(Equal([]domain.Part{
				domain.InlineMediaPart{MediaType: "image/webp", Data: "UklGRg=="},
			}))
		})

		It("projects a text-only message to exactly one text part", func() {
			turns, err := chat.BuildTurns(history, "next", nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(turns[1].Parts).To(Equal([]domain.Part{
				domain.TextPart{Text: "What would you pick for u?"},
			}))
		})

		It("is repeatable", func() {
			first, err := chat.BuildTurns(history, "again", &image)
			Expect(err).NotTo(HaveOccurred())
			second, err := chat.BuildTurns(history, "again", &image)
			Expect(err).NotTo(HaveOccurred())

			Expect(second).To(Equal(first))
		})

		It("does not modify the history", func() {
			before := append([]domain.Message(nil), history...)

			_, err := chat.BuildTurns(history, "again", &image)

			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(Equal(before))
		})

		It("fails on a stored image without the base64 separator", func() {
			history[2].Image = "not-a-data-url"

			_, err := chat.BuildTurns(history, "next", nil)

			Expect(err).To(MatchError(domain.ErrMalformedAttachment))
		})
	})
})
