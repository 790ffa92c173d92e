package attach

import "github.com/sopnote/sopnote/pkg/models"

// Carousel steps through the image attachments of a content block. Only
// images participate; document attachments are filtered out at
// construction. Navigation wraps at both ends.
type Carousel struct {
	images []models.Attachment
	pos    int
}

// NewCarousel builds a carousel from a block's attachment sequence,
// keeping only the images and preserving their relative order.
func NewCarousel(attachments []models.Attachment) *Carousel {
	c := &Carousel{}
	for _, att := range attachments {
		if IsImage(att) {
			c.images = append(c.images, att)
		}
	}
	return c
}

// Len returns the number of images in the carousel.
func (c *Carousel) Len() int {
	return len(c.images)
}

// Current returns the image under the cursor. The second value is false
// when the carousel is empty.
func (c *Carousel) Current() (models.Attachment, bool) {
	if len(c.images) == 0 {
		return models.Attachment{}, false
	}
	return c.images[c.pos], true
}

// Next advances the cursor, wrapping from the last image to the first.
func (c *Carousel) Next() {
	if len(c.images) == 0 {
		return
	}
	c.pos = (c.pos + 1) % len(c.images)
}

// Prev moves the cursor back, wrapping from the first image to the last.
func (c *Carousel) Prev() {
	if len(c.images) == 0 {
		return
	}
	c.pos = (c.pos - 1 + len(c.images)) % len(c.images)
}

// Jump moves the cursor to position i. Out-of-range positions are ignored.
func (c *Carousel) Jump(i int) {
	if i < 0 || i >= len(c.images) {
		return
	}
	c.pos = i
}
