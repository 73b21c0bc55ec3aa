//go:build headless

package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"
)

const tailTimeout = 2 * time.Second

// run plays the score once through the audio backend without a window and
// returns once the last note has faded.
func run(c *controller) error {
	if !c.play() {
		return fmt.Errorf("no score to play")
	}
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	select {
	case <-c.seq.Done():
	case <-sig:
		c.stop()
	}

	deadline := time.Now().Add(tailTimeout)
	for c.engine.ActiveVoices() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}
