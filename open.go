package main

import (
	"bytes"
	"context"
	"errors"
	"os"

	"nodewalk/internal/buffer"
	"nodewalk/internal/config"
	"nodewalk/internal/eventbus"
	"nodewalk/internal/language"
	"nodewalk/internal/overlay"
	"nodewalk/internal/session"
)

const scratchID = "*scratch*"

// openBuffer reads path into a buffer. A path that does not exist yet gives
// an empty buffer that saves to it, and no path gives a scratch buffer.
func openBuffer(path string, bus eventbus.EventBus) (*buffer.Buffer, error) {
	if path == "" {
		return buffer.New(scratchID, nil, bus), nil
	}
	buf, err := buffer.Open(path, bus)
	if errors.Is(err, os.ErrNotExist) {
		buf = buffer.New(path, nil, bus)
		buf.SetPath(path)
		return buf, nil
	}
	return buf, err
}

// pickLanguage resolves the language of buf: the flag first, then the
// config, then detection by file name and shebang.
func pickLanguage(flag string, cfg *config.Config, buf *buffer.Buffer) (language.ID, error) {
	switch {
	case flag != "":
		return language.Parse(flag)
	case cfg.Parser.Language != "":
		return language.Parse(cfg.Parser.Language)
	}
	text := buf.Text()
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return language.Detect(buf.Path(), string(text)), nil
}

// openSession opens path and activates navigation on it
func openSession(ctx context.Context, opts *rootOptions, path string) (*session.Session, language.ID, error) {
	buf, err := openBuffer(path, opts.bus)
	if err != nil {
		return nil, "", err
	}

	lang, err := pickLanguage(opts.lang, opts.cfg, buf)
	if err != nil {
		return nil, "", err
	}
	parser, err := language.NewParser(lang)
	if err != nil {
		return nil, "", err
	}
	hint, err := overlay.ParseHint(opts.cfg.UI.Hint)
	if err != nil {
		parser.Close()
		return nil, "", err
	}

	s, err := session.Open(ctx, buf, parser, session.Options{Hint: hint})
	if err != nil {
		parser.Close()
		return nil, "", err
	}
	log.Infof("opened %s as %s", buf.ID(), lang)
	return s, lang, nil
}
