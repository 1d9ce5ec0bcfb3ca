package prim

import "container/heap"

// LivePhotoLinker groups media handles sharing a ContentIdentifier into two
// priority queues — images and videos — each a max-heap on (codec rank,
// modify date), so the group's "best" member of each side is always the
// cheapest element to retrieve.
type LivePhotoLinker struct {
	images linkHeap
	videos linkHeap
}

// NewLivePhotoLinker constructs an empty linker entry.
func NewLivePhotoLinker() *LivePhotoLinker {
	return &LivePhotoLinker{}
}

// InsertImage links handle as an image-side member, ranked by media's codec
// and modify date.
func (l *LivePhotoLinker) InsertImage(handle Handle[Media], media *Media) {
	heap.Push(&l.images, newLinkMetadata(handle, media))
}

// InsertVideo links handle as a video-side member.
func (l *LivePhotoLinker) InsertVideo(handle Handle[Media], media *Media) {
	heap.Push(&l.videos, newLinkMetadata(handle, media))
}

// GetImageBest returns the highest-priority image handle without removing
// it. Panics if there are no images; callers must check HasImages first.
func (l *LivePhotoLinker) GetImageBest() Handle[Media] {
	return l.images[0].handle
}

// GetVideoBest returns the highest-priority video handle without removing
// it. Panics if there are no videos; callers must check HasVideos first.
func (l *LivePhotoLinker) GetVideoBest() Handle[Media] {
	return l.videos[0].handle
}

// HasImages reports whether this group has any linked images.
func (l *LivePhotoLinker) HasImages() bool {
	return len(l.images) > 0
}

// HasVideos reports whether this group has any linked videos.
func (l *LivePhotoLinker) HasVideos() bool {
	return len(l.videos) > 0
}

// HasDuplicateImages reports whether more than one image shares this group,
// and therefore needs deduplication.
func (l *LivePhotoLinker) HasDuplicateImages() bool {
	return len(l.images) > 1
}

// HasDuplicateVideos reports whether more than one video shares this group.
func (l *LivePhotoLinker) HasDuplicateVideos() bool {
	return len(l.videos) > 1
}

// IsPair reports whether this group has exactly one image and one video,
// i.e. is already well-formed and needs no deduplication.
func (l *LivePhotoLinker) IsPair() bool {
	return len(l.images) == 1 && len(l.videos) == 1
}

// IsLeftoverVideos reports whether this group's image side is empty, meaning
// any linked videos are leftover from a deleted Live Photo image.
func (l *LivePhotoLinker) IsLeftoverVideos() bool {
	return len(l.images) == 0
}

// DrainImages removes and returns every image handle, popped in best-first
// (descending preference) order.
func (l *LivePhotoLinker) DrainImages() []Handle[Media] {
	return drain(&l.images)
}

// DrainVideos removes and returns every video handle, in best-first order.
func (l *LivePhotoLinker) DrainVideos() []Handle[Media] {
	return drain(&l.videos)
}

// Drain removes and returns every handle on both sides, images first.
func (l *LivePhotoLinker) Drain() []Handle[Media] {
	out := l.DrainImages()
	return append(out, l.DrainVideos()...)
}

func drain(h *linkHeap) []Handle[Media] {
	out := make([]Handle[Media], 0, len(*h))
	for h.Len() > 0 {
		item := heap.Pop(h).(linkMetadata)
		out = append(out, item.handle)
	}
	return out
}

// linkMetadata stores the subset of a media file's state needed to order it
// for Live-Photo deduplication preference, alongside its handle.
type linkMetadata struct {
	handle       Handle[Media]
	codec        Codec
	lastModified ParsedDateTime
}

func newLinkMetadata(handle Handle[Media], media *Media) linkMetadata {
	return linkMetadata{
		handle:       handle,
		codec:        media.GetCodec(),
		lastModified: media.GetModifyDate(),
	}
}

// less reports whether a has lower preference than b: codec rank first, then
// modify date on a tie. Newer wins.
func (a linkMetadata) less(b linkMetadata) bool {
	if a.codec.Rank() != b.codec.Rank() {
		return a.codec.Rank() < b.codec.Rank()
	}
	return a.lastModified.Time().Before(b.lastModified.Time())
}

// linkHeap implements container/heap.Interface as a max-heap (Less is
// inverted) over linkMetadata.
type linkHeap []linkMetadata

func (h linkHeap) Len() int { return len(h) }
func (h linkHeap) Less(i, j int) bool {
	// Max-heap: the "best" (most preferred) element has the smallest index.
	return h[j].less(h[i])
}
func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	*h = append(*h, x.(linkMetadata))
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
