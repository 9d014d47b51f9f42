package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"git.lost.host/meutraa/keyfall/internal/config"
	"git.lost.host/meutraa/keyfall/internal/game"
	"git.lost.host/meutraa/keyfall/internal/history"
	"git.lost.host/meutraa/keyfall/internal/parser"
	"git.lost.host/meutraa/keyfall/internal/testdata"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestImportMidi(t *testing.T) {
	dir := t.TempDir()
	song, err := testdata.WriteSong(dir, 60, 61)
	if nil != err {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "song.yml")
	cfg, err := config.Parse([]string{"import", "--title", "Imported", "--filename", "song.ogg", song, out})
	if nil != err {
		t.Fatal(err)
	}
	if err := importMidi(cfg, quietLogger()); nil != err {
		t.Fatal(err)
	}

	chart, err := (&parser.DefaultParser{}).Parse(out)
	if nil != err {
		t.Fatal(err)
	}
	expected := []game.Note{game.NewTap(game.Lane1, 500), game.NewTap(game.Lane2, 1000)}
	if chart.Title != "Imported" || chart.AudioFilename != "song.ogg" || !reflect.DeepEqual(chart.Notes, expected) {
		t.Log("chart   ", chart)
		t.Log("expected", expected)
		t.Fail()
	}
}

func TestImportRejectsOutputExtension(t *testing.T) {
	dir := t.TempDir()
	song, err := testdata.WriteSong(dir, 60)
	if nil != err {
		t.Fatal(err)
	}
	cfg, err := config.Parse([]string{"import", song, filepath.Join(dir, "song.txt")})
	if nil != err {
		t.Fatal(err)
	}
	if err := importMidi(cfg, quietLogger()); nil == err {
		t.Error("expected an error for a .txt output")
	}
}

func TestShowHistory(t *testing.T) {
	dir := t.TempDir()
	chartPath, err := testdata.WriteLevel(dir)
	if nil != err {
		t.Fatal(err)
	}
	db := filepath.Join(dir, "history.db")
	cfg, err := config.Parse([]string{"--db", db, "history", chartPath})
	if nil != err {
		t.Fatal(err)
	}

	recorder := &history.DefaultRecorder{}
	if err := recorder.Init(db); nil != err {
		t.Skip("sqlite unavailable:", err)
	}
	chart, err := (&parser.DefaultParser{}).Parse(chartPath)
	if nil != err {
		t.Fatal(err)
	}
	err = recorder.Save(chart, &history.Play{Counts: []int{3, 1, 0, 0, 2}, Inputs: []game.Input{{Lane: game.Lane1}}})
	recorder.Deinit()
	if nil != err {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := showHistory(cfg, &out); nil != err {
		t.Fatal(err)
	}
	for _, want := range []string{"Test Level", "Marvelous 3", "Miss 2", "inputs 1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output %q lacks %q", out.String(), want)
		}
	}
}
