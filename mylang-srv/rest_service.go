package main

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"io"
	"log"
	"os"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/expvarhandler"

	"mylang-go/model"
	"mylang-go/mylang"
)

// Various counters - see https://pkg.go.dev/expvar for details.
var (
	// Counter for total number of /run calls
	runCalls = expvar.NewInt("runCalls")
	// Runs answered from the log instead of being executed
	runCacheHits = expvar.NewInt("runCacheHits")
	// Runs that ended with a lexical, syntax or runtime error
	runFailures = expvar.NewInt("runFailures")

	// Counters for various response status codes
	okResponses       = expvar.NewInt("okResponses")
	notFoundResponses = expvar.NewInt("notFoundResponses")
	otherResponses    = expvar.NewInt("otherResponses")

	// How long a logged run stays valid after its last access.
	expiredDuration = 5 * time.Minute

	srvServer *fasthttp.Server
)

type RunError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Pos     int    `json:"pos"`
}

type RunResponse struct {
	Digest string    `json:"digest"`
	Output []int64   `json:"output"`
	Error  *RunError `json:"error"`
	Cached bool      `json:"cached"`
}

func responseFromEntry(entry *model.RunEntry, cached bool) *RunResponse {
	resp := &RunResponse{Digest: entry.Digest, Output: entry.Values(), Cached: cached}
	if entry.ErrorKind != "" {
		resp.Error = &RunError{Kind: entry.ErrorKind, Message: entry.ErrorMessage, Pos: entry.ErrorPos}
	}
	return resp
}

// ExecuteSource runs source in a fresh environment and records the outcome,
// including the values printed before a failure.
func ExecuteSource(source string, expire time.Duration) *model.RunEntry {
	stopwatch := mylang.NewStopwatch()
	now := time.Now().Unix()
	entry := &model.RunEntry{
		Digest:          mylang.SourceDigestHex(source),
		CreatedAt:       now,
		LastAccess:      now,
		ExpiredDuration: int64(expire / time.Second),
	}
	result, err := mylang.Run(source, io.Discard)
	if result.Program != nil {
		entry.Statements = len(result.Program.Statements)
	}
	for _, value := range result.Printed {
		entry.Prints = append(entry.Prints, &model.PrintEntry{Value: value})
	}
	if err != nil {
		entry.ErrorKind = mylang.ErrorKind(err)
		entry.ErrorMessage = err.Error()
		var p mylang.Positioned
		if errors.As(err, &p) {
			entry.ErrorPos = p.Position()
		}
	}
	entry.ElapsedMicros = int64(stopwatch.Elapsed() * 1e6)
	return entry
}

func writeJSON(ctx *fasthttp.RequestCtx, v interface{}) {
	buf, err := json.Marshal(v)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.Success("application/json", buf)
}

func HandleRun(ctx *fasthttp.RequestCtx) {
	ctx.Response.Reset()
	if !ctx.IsPost() {
		ctx.Error("POST the source text", fasthttp.StatusMethodNotAllowed)
		return
	}
	// Zero keeps the expiry of an already logged run.
	var override time.Duration
	if arg := ctx.QueryArgs().Peek("expire"); len(arg) > 0 {
		d, err := time.ParseDuration(string(arg))
		if err != nil || d <= 0 {
			ctx.Error("bad expire '"+string(arg)+"'", fasthttp.StatusBadRequest)
			return
		}
		override = d
	}
	runCalls.Add(1)
	source := string(ctx.PostBody())
	digest := mylang.SourceDigestHex(source)

	entry, err := FindRunByDigest(digest)
	if err == nil {
		runCacheHits.Add(1)
		if err := UpdateRunAccess(entry.ID, override); err != nil {
			log.Println(err)
		}
		writeJSON(ctx, responseFromEntry(entry, true))
		return
	}
	if !errors.Is(err, os.ErrNotExist) {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}

	expire := expiredDuration
	if override > 0 {
		expire = override
	}
	entry = ExecuteSource(source, expire)
	if entry.ErrorKind != "" {
		runFailures.Add(1)
	}
	if err := SaveRunEntry(entry); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	writeJSON(ctx, responseFromEntry(entry, false))
}

func HandleQuery(ctx *fasthttp.RequestCtx) {
	ctx.Response.Reset()
	digest := string(ctx.QueryArgs().Peek("digest"))
	entry, err := FindRunByDigest(digest)
	if errors.Is(err, os.ErrNotExist) {
		ctx.Error("no run with digest '"+digest+"'", fasthttp.StatusNotFound)
		return
	}
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	writeJSON(ctx, entry)
}

func updateCounters(ctx *fasthttp.RequestCtx) {
	switch ctx.Response.StatusCode() {
	case fasthttp.StatusOK:
		okResponses.Add(1)
	case fasthttp.StatusNotFound:
		notFoundResponses.Add(1)
	default:
		otherResponses.Add(1)
	}
}

// Create RequestHandler serving runs on /run, logged runs on /query and
// server stats on /stats.
// /stats output may be filtered using regexps. For example:
//
//   - /stats?r=run will show only stats (expvars) containing 'run'
//     in their names.
func requestHandler(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/stats":
		expvarhandler.ExpvarHandler(ctx)
		return
	case "/run":
		HandleRun(ctx)
	case "/query":
		HandleQuery(ctx)
	default:
		ctx.Error("not found", fasthttp.StatusNotFound)
	}
	updateCounters(ctx)
}

func Serve(addr string) error {
	log.Printf("Starting HTTP server on %q", addr)
	srvServer = &fasthttp.Server{
		Handler:            requestHandler,
		ReadTimeout:        time.Minute,
		WriteTimeout:       time.Minute,
		MaxRequestBodySize: 1 << 20,
	}
	return srvServer.ListenAndServe(addr)
}

func shutdown(ctx context.Context) {
	StopScheduler()
	if srvServer != nil {
		if err := srvServer.ShutdownWithContext(ctx); err != nil {
			log.Println(err)
		}
	}
	if err := CloseDb(); err != nil {
		log.Println(err)
	}
}
