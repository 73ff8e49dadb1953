// Package xfyun provides a Go client for the xfyun (iFlytek) online
// text-to-speech WebSocket API.
//
// Each call opens one connection authenticated by a signed URL, sends the
// text as one or more frames and streams back the synthesized audio.
//
// # Quick Start
//
//	creds, err := xfyun.NewCredentials(appID, apiKey, apiSecret)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := xfyun.NewClient(creds, xfyun.ClientOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stream, err := client.Synthesize(ctx, "你好，世界", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Close()
//
//	for {
//	    audio, err := stream.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    out.Write(audio)
//	}
//
// Stream.All wraps the same loop in a range-over-func iterator that closes
// the stream when the loop exits. SynthesizeAll returns the whole result at
// once, and Stream implements io.WriterTo for copying straight into a file.
//
// # Chunking
//
// The server accepts at most 8000 bytes of text per frame. Synthesize splits
// character text into chunks of 2500 characters and sends them in order over
// the same connection, waiting for each chunk's final audio message before
// sending the next. SynthesizeBytes sends pre-encoded text as a single frame
// and rejects anything larger than the limit.
//
// # Business Options
//
// BusinessOptions are passed through to the server unchanged:
//
//	opts := xfyun.DefaultBusinessOptions().With("speed", 60)
//	audio, err := client.SynthesizeAll(ctx, text, opts)
//
// MaleVoiceOptions selects the "aisjiuxu" voice.
//
// # Error Handling
//
// Errors returned by Client and Stream methods can be type-asserted to
// *xfyun.Error, except io.EOF from Stream.Next and errors from the writer
// passed to Stream.WriteTo:
//
//	var xfErr *xfyun.Error
//	if errors.As(err, &xfErr) && xfErr.Code != nil {
//	    fmt.Printf("sid=%s code=%d: %s\n", xfErr.SID, *xfErr.Code, xfErr.Message)
//	}
//
// Nothing is retried. Connection URLs are only valid for a few minutes around
// the time they are signed, so a retry must call Synthesize again.
package xfyun
