package audio

import (
	"strconv"

	"github.com/zhaarey/go-mp4tag"

	"saavndl/internal/model"
)

// tagM4A writes iTunes-style atoms.
//
// The library replaces atoms wholesale on write, so repeated tagging is
// naturally idempotent.
func tagM4A(path string, meta *model.TrackMetadata, artwork []byte) error {
	mp4, err := mp4tag.Open(path)
	if err != nil {
		return err
	}
	defer mp4.Close()

	tags := &mp4tag.MP4Tags{
		Title:       meta.Title,
		Artist:      meta.Artist,
		AlbumArtist: meta.Artist,
		Album:       meta.Album,
	}
	if meta.Year > 0 {
		tags.Date = strconv.Itoa(meta.Year)
	}
	if artwork != nil {
		tags.Pictures = []*mp4tag.MP4Picture{
			{Format: mp4tag.ImageTypeJPEG, Data: artwork},
		}
	}

	return mp4.Write(tags, []string{})
}
