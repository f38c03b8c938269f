// fadeplay проигрывает аудиофайл с плавным нарастанием и затуханием
// громкости: демонстрация связки player + volumefader.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/alecthomas/kong"

	volumefader "github.com/bitfasching/VolumeFader"
	"github.com/bitfasching/VolumeFader/player"
)

// CLI описывает флаги командной строки.
type CLI struct {
	File    string        `arg:"" name:"file" help:"Аудиофайл или URL (mp3, wav, ulaw/alaw)"`
	Volume  float64       `default:"1.0" help:"Целевая громкость [0..1]"`
	FadeIn  time.Duration `name:"fade-in" default:"2s" help:"Длительность нарастания"`
	FadeOut time.Duration `name:"fade-out" default:"2s" help:"Длительность затухания"`
	Hold    time.Duration `default:"10s" help:"Сколько играть на целевой громкости"`
	Linear  bool          `help:"Линейная шкала вместо логарифмической (60 дБ)"`
	Verbose bool          `help:"Печатать диагностику фейдера"`
}

func main() {
	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("fadeplay"),
		kong.Description("Проигрывание аудио с плавными переходами громкости"),
		kong.UsageOnError(),
	)

	track, err := player.Open(cli.File, player.TrackParams{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "fadeplay: %v\n", err)
		os.Exit(1)
	}
	defer track.Close()

	opts := &volumefader.Options{
		Volume:   new(float64), // стартуем с тишины, нарастание сделает фейдер
		Duration: cli.FadeIn,
		Strict:   true,
	}
	if cli.Linear {
		opts.Scale = volumefader.LinearScale()
	}
	if cli.Verbose {
		opts.Logger = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
	}

	fader, err := volumefader.New(track, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fadeplay: %v\n", err)
		os.Exit(1)
	}

	track.Play()

	// Нарастание до целевой громкости.
	fadedIn := make(chan struct{})
	if err := fader.FadeTo(cli.Volume, func() { close(fadedIn) }); err != nil {
		fmt.Fprintf(os.Stderr, "fadeplay: %v\n", err)
		os.Exit(1)
	}
	select {
	case <-fadedIn:
	case <-track.Done():
		return // трек короче, чем нарастание
	}

	// Держим громкость, пока не истечёт время или не кончится трек.
	select {
	case <-time.After(cli.Hold):
	case <-track.Done():
		return
	}

	// Затухание до тишины.
	if err := fader.SetFadeDuration(cli.FadeOut); err != nil {
		fmt.Fprintf(os.Stderr, "fadeplay: %v\n", err)
		os.Exit(1)
	}
	fadedOut := make(chan struct{})
	fader.FadeOut(func() { close(fadedOut) })
	select {
	case <-fadedOut:
	case <-track.Done():
	}
}
