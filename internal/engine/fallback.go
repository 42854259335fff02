package engine

import (
	"fmt"
	"strings"

	"github.com/yangwenmai/lovenote/internal/model"
)

var fallbackLoveNotes = []string{
	"I love how you make me smile every day",
	"My favorite thing about us is our laughter together",
	"You are the best thing that ever happened to me",
	"Every day with you feels like a dream",
	"I fall in love with you more each day",
}

// FallbackCard builds card content from the request alone. It is used when
// no credential produced usable output.
func FallbackCard(req model.CardRequest) model.CardContent {
	poem := fmt.Sprintf(`My dearest %s,
You are the sunshine in my days,
The stars that light my darkest nights,
In countless beautiful ways,
You make everything feel right.
Forever yours, %s`, req.RecipientName, req.SenderName)

	return model.CardContent{
		Poem:           poem,
		LoveNotes:      append([]string(nil), fallbackLoveNotes...),
		ScratchMessage: fmt.Sprintf("You are my forever, %s! I love you to the moon and back!", req.RecipientName),
	}
}

// FallbackLetter builds a four-paragraph letter around the sender's own
// words.
func FallbackLetter(req model.LetterRequest) model.LetterContent {
	paragraphs := []string{
		fmt.Sprintf("There are some things I have been wanting to tell you, %s, and I could not let another day pass without putting them into words.", req.RecipientName),
		fmt.Sprintf("When I think about us, this is what fills my heart: %s", req.Context),
		"Every moment we share reminds me how lucky I am. You make the ordinary days feel special, and the hard days feel lighter just by being part of them.",
		"Whatever comes next, I want you to know that you are loved, deeply and completely, today and every day after.",
	}
	return model.LetterContent{Content: strings.Join(paragraphs, "\n\n")}
}
