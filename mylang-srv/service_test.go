package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"mylang-go/model"
	"mylang-go/mylang"
)

func openTestDb(t *testing.T) {
	t.Helper()
	if err := OpenDb(filepath.Join(t.TempDir(), "t.db")); err != nil {
		t.Fatalf("OpenDb failed: %v", err)
	}
	t.Cleanup(func() {
		if err := CloseDb(); err != nil {
			t.Error(err)
		}
		DB = nil
	})
}

func doRequest(method, uri, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	ctx.Request.SetBodyString(body)
	requestHandler(&ctx)
	return &ctx
}

func decodeRun(t *testing.T, ctx *fasthttp.RequestCtx) RunResponse {
	t.Helper()
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var resp RunResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("bad response %q: %v", ctx.Response.Body(), err)
	}
	return resp
}

func TestRunAndCache(t *testing.T) {
	openTestDb(t)
	src := "x = 3 + 5 * 2; print x; print y;"

	first := decodeRun(t, doRequest("POST", "/run", src))
	if first.Cached || first.Error != nil {
		t.Errorf("first run = %+v", first)
	}
	if !reflect.DeepEqual(first.Output, []int64{13, 0}) {
		t.Errorf("output = %v", first.Output)
	}
	if first.Digest != mylang.SourceDigestHex(src) {
		t.Errorf("digest = %s", first.Digest)
	}

	second := decodeRun(t, doRequest("POST", "/run", src))
	if !second.Cached || !reflect.DeepEqual(second.Output, first.Output) {
		t.Errorf("second run = %+v", second)
	}

	var count int64
	DB.Model(&model.RunEntry{}).Count(&count)
	if count != 1 {
		t.Errorf("%d entries logged, want 1", count)
	}
}

func TestRunErrors(t *testing.T) {
	openTestDb(t)

	resp := decodeRun(t, doRequest("POST", "/run", "a = 2; print a; b = a / 0; print b;"))
	if resp.Error == nil || resp.Error.Kind != "RuntimeError" || resp.Error.Pos != 22 {
		t.Fatalf("error = %+v", resp.Error)
	}
	if !reflect.DeepEqual(resp.Output, []int64{2}) {
		t.Errorf("output = %v", resp.Output)
	}

	resp = decodeRun(t, doRequest("POST", "/run", "x = ;"))
	if resp.Error == nil || resp.Error.Kind != "SyntaxError" || resp.Output == nil || len(resp.Output) != 0 {
		t.Errorf("response = %+v", resp)
	}

	// Failures are answered from the log as well.
	resp = decodeRun(t, doRequest("POST", "/run", "x = ;"))
	if !resp.Cached || resp.Error == nil || resp.Error.Message != "expected integer, identifier or '(', got ';'" {
		t.Errorf("response = %+v", resp)
	}
}

func TestRunBadRequests(t *testing.T) {
	openTestDb(t)
	if ctx := doRequest("GET", "/run", "print x;"); ctx.Response.StatusCode() != fasthttp.StatusMethodNotAllowed {
		t.Errorf("GET /run status %d", ctx.Response.StatusCode())
	}
	if ctx := doRequest("POST", "/run?expire=soon", "print x;"); ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		t.Errorf("bad expire status %d", ctx.Response.StatusCode())
	}
	if ctx := doRequest("GET", "/nowhere", ""); ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Errorf("unknown path status %d", ctx.Response.StatusCode())
	}
}

func TestQuery(t *testing.T) {
	openTestDb(t)
	src := "v = 6 * 7; print v;"
	doRequest("POST", "/run?expire=1h", src)

	ctx := doRequest("GET", "/query?digest="+mylang.SourceDigestHex(src), "")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status %d", ctx.Response.StatusCode())
	}
	var entry model.RunEntry
	if err := json.Unmarshal(ctx.Response.Body(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Statements != 2 || entry.ExpiredDuration != 3600 || !reflect.DeepEqual(entry.Values(), []int64{42}) {
		t.Errorf("entry = %+v", entry)
	}

	ctx = doRequest("GET", "/query?digest=0000", "")
	if ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Errorf("missing digest status %d", ctx.Response.StatusCode())
	}
}

func TestCleanExpired(t *testing.T) {
	openTestDb(t)
	now := time.Now().Unix()
	stale := ExecuteSource("s = 1; print s;", time.Minute)
	stale.LastAccess = now - 120
	fresh := ExecuteSource("f = 2; print f;", time.Minute)
	for _, entry := range []*model.RunEntry{stale, fresh} {
		if err := SaveRunEntry(entry); err != nil {
			t.Fatal(err)
		}
	}

	cleaned, err := cleanExpired()
	if err != nil || cleaned != 1 {
		t.Fatalf("cleanExpired = %d, %v", cleaned, err)
	}
	if _, err := FindRunByDigest(stale.Digest); err == nil {
		t.Error("expired run still found")
	}
	if entry, err := FindRunByDigest(fresh.Digest); err != nil || !reflect.DeepEqual(entry.Values(), []int64{2}) {
		t.Errorf("fresh run = %+v, %v", entry, err)
	}

	var prints int64
	DB.Model(&model.PrintEntry{}).Count(&prints)
	if prints != 1 {
		t.Errorf("%d live prints, want 1", prints)
	}

	cleaned, err = cleanExpired()
	if err != nil || cleaned != 0 {
		t.Errorf("second cleanExpired = %d, %v", cleaned, err)
	}
}

func TestUpdateRunAccess(t *testing.T) {
	openTestDb(t)
	entry := ExecuteSource("print z;", time.Second)
	entry.LastAccess = 1
	if err := SaveRunEntry(entry); err != nil {
		t.Fatal(err)
	}
	if err := UpdateRunAccess(entry.ID, 0); err != nil {
		t.Fatal(err)
	}
	found, err := FindRunByDigest(entry.Digest)
	if err != nil {
		t.Fatal(err)
	}
	if found.LastAccess < time.Now().Unix()-5 || found.ExpiredDuration != 1 {
		t.Errorf("entry = %+v", found)
	}

	if err := UpdateRunAccess(entry.ID, time.Hour); err != nil {
		t.Fatal(err)
	}
	if found, _ = FindRunByDigest(entry.Digest); found.ExpiredDuration != 3600 {
		t.Errorf("ExpiredDuration = %d, want 3600", found.ExpiredDuration)
	}
}

func TestRunExpireOverrideOnCacheHit(t *testing.T) {
	openTestDb(t)
	src := "e = 1; print e;"
	decodeRun(t, doRequest("POST", "/run?expire=1h", src))
	if resp := decodeRun(t, doRequest("POST", "/run?expire=3h", src)); !resp.Cached {
		t.Fatalf("second run not cached: %+v", resp)
	}
	entry, err := FindRunByDigest(mylang.SourceDigestHex(src))
	if err != nil {
		t.Fatal(err)
	}
	if entry.ExpiredDuration != 3*3600 {
		t.Errorf("ExpiredDuration = %d, want %d", entry.ExpiredDuration, 3*3600)
	}

	// Without an override the stored expiry stays.
	decodeRun(t, doRequest("POST", "/run", src))
	if entry, _ = FindRunByDigest(mylang.SourceDigestHex(src)); entry.ExpiredDuration != 3*3600 {
		t.Errorf("ExpiredDuration = %d after plain hit", entry.ExpiredDuration)
	}
}

func TestDeleteRuns(t *testing.T) {
	openTestDb(t)
	keep := ExecuteSource("k = 1; print k; print k;", time.Hour)
	drop := ExecuteSource("d = 2; print d;", time.Hour)
	for _, entry := range []*model.RunEntry{keep, drop} {
		if err := SaveRunEntry(entry); err != nil {
			t.Fatal(err)
		}
	}
	if err := DeleteRuns([]int64{drop.ID}); err != nil {
		t.Fatalf("DeleteRuns failed: %v", err)
	}
	if _, err := FindRunByDigest(drop.Digest); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("deleted run lookup = %v", err)
	}
	var prints []model.PrintEntry
	if err := DB.Where("`pid` = ?", keep.ID).Order("seq").Find(&prints).Error; err != nil {
		t.Fatal(err)
	}
	if len(prints) != 2 || prints[0].Seq != 0 || prints[1].Seq != 1 {
		t.Errorf("prints of kept run = %+v", prints)
	}
	var live int64
	DB.Model(&model.PrintEntry{}).Count(&live)
	if live != 2 {
		t.Errorf("%d live prints, want 2", live)
	}
}

func TestCacheMissIsNotLogged(t *testing.T) {
	var logged bytes.Buffer
	log.SetOutput(&logged)
	defer log.SetOutput(os.Stderr)
	openTestDb(t)

	decodeRun(t, doRequest("POST", "/run", "print m;"))
	doRequest("GET", "/query?digest=ffff", "")
	if strings.Contains(logged.String(), "record not found") {
		t.Errorf("cache miss logged:\n%s", logged.String())
	}
}
