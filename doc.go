// Package pizzaz serves a catalog of UI widgets over the Model Context Protocol.
//
// Every widget is exposed twice: as a tool that a model can call, and as an
// HTML resource that a host renders when the tool result references it. Clients
// connect with a long-lived event stream and send requests on a side channel
// addressed by the session id the stream announces.
//
// # Basic Usage
//
//	srv, err := pizzaz.New(
//	    pizzaz.WithAssetsDir("assets"),
//	    pizzaz.WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//
//	if err := srv.ListenAndServe(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// ListenAndServe returns once ctx is cancelled and every open stream has been
// closed, or ShutdownTimeout has elapsed.
//
// # Embedding
//
// Handler returns the HTTP surface for use with another server or mux:
//
//	GET  /mcp                        open an event stream
//	POST /mcp/messages?sessionId=ID  deliver a request to a session
//	GET  /health                     liveness and open session count
//
// Call Shutdown before discarding a Server that was served this way.
//
// # Widget Catalog
//
// The built-in catalog holds four pizza widgets. Each widget body is read once
// at startup from the assets directory: NAME.html if present, otherwise the
// lexicographically last NAME-*.html. A missing body fails New with an
// *AssetMissingError:
//
//	srv, err := pizzaz.New(pizzaz.WithAssetsDir(dir))
//	if missing, ok := errors.AsType[*pizzaz.AssetMissingError](err); ok {
//	    log.Fatalf("build the widgets first: %s not found in %s", missing.Name, missing.Dir)
//	}
//
// A different catalog can be supplied with WithWidgets or WithCatalogFile.
package pizzaz
