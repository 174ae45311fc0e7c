package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"

	"saavndl/internal/model"
)

// ErrUnsupportedSchema is returned when the file's container has no
// supported tag schema (Opus and WAV downloads).
var ErrUnsupportedSchema = errors.New("no supported tag schema for format")

// TagError is returned when tags could not be written to a file whose
// format is supported.
type TagError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *TagError) Error() string {
	return fmt.Sprintf("tagging %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *TagError) Unwrap() error {
	return e.Err
}

// Tagger embeds track metadata into audio files.
//
// The schema is chosen from the file extension:
//   - .mp3  → ID3v2 frames
//   - .flac → Vorbis comment + picture metadata blocks
//   - .m4a  → iTunes-style atoms
//
// Example:
//
//	tagger := audio.NewTagger()
//
//	err := tagger.Tag("/music/Artist/Song.flac", meta, jpegBytes)
//	if errors.Is(err, audio.ErrUnsupportedSchema) {
//	    log.Printf("keeping %s untagged", path)
//	}
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Tag writes the track's metadata (and cover art, when non-nil) into the
// file at path. The artwork must be JPEG bytes.
//
// Returns ErrUnsupportedSchema for formats without a tag schema and
// *TagError when a supported write fails. Tagging is idempotent: tagging
// the same file twice leaves a single set of frames and a single picture.
func (t *Tagger) Tag(path string, meta *model.TrackMetadata, artwork []byte) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		err = tagMP3(path, meta, artwork)
	case ".flac":
		err = tagFLAC(path, meta, artwork)
	case ".m4a":
		err = tagM4A(path, meta, artwork)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedSchema, strings.TrimPrefix(filepath.Ext(path), "."))
	}

	if err != nil {
		return &TagError{Path: path, Err: err}
	}
	return nil
}

// tagMP3 writes ID3v2 frames.
//
// Text frames replace any existing value by frame ID. Attached pictures
// accumulate in ID3v2, so existing APIC frames are deleted before the new
// cover is added.
func tagMP3(path string, meta *model.TrackMetadata, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetTitle(meta.Title)
	tag.SetArtist(meta.Artist)
	tag.SetAlbum(meta.Album)
	if meta.Artist != "" {
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, meta.Artist)
	}
	if meta.Year > 0 {
		year := strconv.Itoa(meta.Year)
		tag.AddTextFrame("TYER", id3v2.EncodingUTF8, year)
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, year)
	}

	if artwork != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     artwork,
		})
	}

	return tag.Save()
}
