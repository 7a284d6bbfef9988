package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	seed := flag.Int64("seed", 0, "hazard placement seed (0 picks one from the clock)")
	debug := flag.Bool("debug", false, "enable debug mode")
	watch := flag.Bool("watch", false, "hot-reload tuning and level scripts from disk")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelScript := flag.String("level", "", "level script in script/scripts/ (basename, .tengo optional)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	w, h := ebiten.Monitor().Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("cliffrunner")

	game, err := NewGame(GameOptions{
		Seed:   *seed,
		Script: *levelScript,
		Watch:  *watch,
		Debug:  *debug,
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
