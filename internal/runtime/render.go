package runtime

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/aretw0/pageflow/pkg/domain"
)

// ButtonsPerRow is the widest button row chat channels accept.
const ButtonsPerRow = 2

// Render turns a page into a channel-agnostic presentation.
// It fails with domain.ErrUnknownPresentationKind only when the page has no content.
func Render(page domain.Page, uctx domain.UserContext, texts Texts) (domain.Presentation, error) {
	values := Placeholders(page, uctx, texts.Defaults)

	switch c := domain.Normalize(page.Content).(type) {
	case domain.InteractiveList:
		label := c.ActionLabel
		if label == "" {
			label = texts.DefaultActionLabel
		}
		return domain.Presentation{
			Kind:        domain.KindList,
			Page:        page.Name,
			Header:      Substitute(c.Header, values),
			Body:        Substitute(c.Body, values),
			ActionLabel: label,
			Sections:    domain.CloneSections(c.Sections),
		}, nil

	case domain.ButtonMenu:
		return domain.Presentation{
			Kind:       domain.KindButtons,
			Page:       page.Name,
			Body:       Substitute(c.Body, values),
			ButtonRows: PartitionButtons(c.Buttons),
		}, nil

	case domain.PlainText:
		return domain.Presentation{
			Kind: domain.KindText,
			Page: page.Name,
			Body: Substitute(c.Text, values),
		}, nil
	}

	return domain.Presentation{}, fmt.Errorf("render page %q: %w", page.Name, domain.ErrUnknownPresentationKind)
}

// PartitionButtons splits buttons, in order, into rows of at most ButtonsPerRow.
// The rows never share memory with the input.
func PartitionButtons(buttons []domain.Button) [][]domain.Button {
	if len(buttons) == 0 {
		return nil
	}
	return lo.Chunk(append([]domain.Button(nil), buttons...), ButtonsPerRow)
}
