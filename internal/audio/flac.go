package audio

import (
	"strconv"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"saavndl/internal/model"
)

// tagFLAC writes a Vorbis comment block and a picture block.
//
// Existing comment and picture blocks are stripped first and rebuilt from
// the metadata, which keeps repeated tagging from stacking duplicates.
func tagFLAC(path string, meta *model.TrackMetadata, artwork []byte) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return err
	}

	var kept []*flac.MetaDataBlock
	for _, block := range f.Meta {
		if block.Type != flac.VorbisComment && block.Type != flac.Picture {
			kept = append(kept, block)
		}
	}
	f.Meta = kept

	comment := flacvorbis.New()
	addComment(comment, flacvorbis.FIELD_TITLE, meta.Title)
	addComment(comment, flacvorbis.FIELD_ARTIST, meta.Artist)
	addComment(comment, flacvorbis.FIELD_ALBUM, meta.Album)
	if meta.Year > 0 {
		addComment(comment, flacvorbis.FIELD_DATE, strconv.Itoa(meta.Year))
	}
	commentBlock := comment.Marshal()
	f.Meta = append(f.Meta, &commentBlock)

	if artwork != nil {
		picture, err := flacpicture.NewFromImageData(
			flacpicture.PictureTypeFrontCover,
			"Front Cover",
			artwork,
			"image/jpeg",
		)
		if err != nil {
			return err
		}
		pictureBlock := picture.Marshal()
		f.Meta = append(f.Meta, &pictureBlock)
	}

	return f.Save(path)
}

func addComment(comment *flacvorbis.MetaDataBlockVorbisComment, field, value string) {
	if value == "" {
		return
	}
	// Add only fails on malformed field names; ours are library constants.
	_ = comment.Add(field, value)
}
