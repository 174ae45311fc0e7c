// Package fetch downloads audio from a matched YouTube source and
// transcodes it to the requested format via yt-dlp and ffmpeg.
//
// Downloads land in a hidden staging directory next to the destination and
// are renamed into place only once complete, so a crash, a cancellation or
// an exhausted retry loop never leaves a partial file at the output path.
//
// Transient failures are retried with exponential backoff; transcoding
// failures are not, since ffmpeg rejecting the stream will not heal with
// time.
package fetch
