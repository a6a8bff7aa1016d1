// Package addonhost provides the Go-side building blocks for media-center
// addon backends: host instance dispatch, adaptive-stream manifest and
// segment probing, and dynamically-loaded native decode sessions.
//
// Key pieces include:
//   - InstanceType/Status and the CreateInstance factory implementing the
//     host's versioned instance-creation handshake
//   - InputStream: opens a stream manifest and exposes its tracks,
//     variants and capabilities to the host
//   - VideoCodecInstance: a decode session bound to a native support
//     library loaded at runtime (pkg/nativelib)
//   - Bitstream and container probing (H.264, VP8/VP9, AV1, IVF, ADTS,
//     fMP4 init segments, MPEG-TS)
//
// # Architecture
//
//	host -> CreateInstance(type, handle) -> InputStream       -> manifest fetch/parse -> Streams()
//	                                     -> VideoCodecInstance -> nativelib           -> decode session
//
// # Native Libraries
//
// VideoCodecInstance binds a libaddon_codec library located next to the
// addon. Set ADDONHOST_CODEC_LIB to point at a specific file. Platforms
// that require shared objects to live in a writable cache directory can
// set CacheDir in the codec config; the loader relocates the library
// before opening it.
//
// Packaging and repository publishing for built addons live in
// pkg/addonrepo and the addonpack command.
package addonhost
