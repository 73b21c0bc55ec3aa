//go:build js && wasm

package main

import (
	"strings"
	"syscall/js"
	"unsafe"

	"github.com/cwbudde/algo-keys/synth"
	"github.com/cwbudde/algo-keys/timbre"
)

const maxBlockFrames = 128

var (
	engine       *synth.Engine
	outputBuffer []float32
)

func main() {
	// Keep program running
	c := make(chan struct{})

	js.Global().Set("wasmInit", js.FuncOf(wasmInit))
	js.Global().Set("wasmNoteOn", js.FuncOf(wasmNoteOn))
	js.Global().Set("wasmNoteOff", js.FuncOf(wasmNoteOff))
	js.Global().Set("wasmReleaseAll", js.FuncOf(wasmReleaseAll))
	js.Global().Set("wasmSelectTimbre", js.FuncOf(wasmSelectTimbre))
	js.Global().Set("wasmSetOctave", js.FuncOf(wasmSetOctave))
	js.Global().Set("wasmKeyTarget", js.FuncOf(wasmKeyTarget))
	js.Global().Set("wasmProcessBlock", js.FuncOf(wasmProcessBlock))
	js.Global().Set("wasmGetMemoryBuffer", js.FuncOf(wasmGetMemoryBuffer))

	println("WASM keys module loaded")
	<-c
}

// wasmInit(sampleRate, ...timbreTexts) builds the engine. Each extra argument
// is a timbre in the text format; unreadable ones fall back to a sine.
func wasmInit(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	params := synth.NewDefaultParams()
	params.SampleRate = args[0].Int()

	var timbres []synth.Timbre
	for i, a := range args[1:] {
		t, err := timbre.Parse(strings.NewReader(a.String()), i)
		if err != nil {
			println("timbre", i, "warning:", err.Error())
		}
		timbres = append(timbres, t)
	}

	e, err := synth.NewEngine(params, synth.NewTimbreTable(timbres...))
	if err != nil {
		println("engine init failed:", err.Error())
		return nil
	}
	engine = e
	outputBuffer = make([]float32, maxBlockFrames*2)

	println("Engine initialized at", params.SampleRate, "Hz with", engine.Timbres().Len(), "timbres")
	return nil
}

func wasmNoteOn(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || engine == nil {
		return false
	}
	return engine.NoteOn(args[0].Int())
}

func wasmNoteOff(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || engine == nil {
		return false
	}
	return engine.NoteOff(args[0].Int())
}

func wasmReleaseAll(this js.Value, args []js.Value) interface{} {
	if engine == nil {
		return false
	}
	return engine.ReleaseAll()
}

func wasmSelectTimbre(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || engine == nil {
		return false
	}
	return engine.SelectTimbre(args[0].Int())
}

func wasmSetOctave(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || engine == nil {
		return false
	}
	return engine.SetOctaveShift(args[0].Int())
}

func wasmKeyTarget(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || engine == nil {
		return 0
	}
	return float64(engine.KeyTarget(args[0].Int()))
}

func wasmProcessBlock(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || engine == nil {
		return 0
	}

	numFrames := args[0].Int()
	if numFrames > maxBlockFrames {
		numFrames = maxBlockFrames
	}
	engine.Render(outputBuffer, numFrames)

	// Return pointer to buffer in WASM linear memory
	ptr := &outputBuffer[0]
	return js.ValueOf(uintptr(unsafe.Pointer(ptr)))
}

func wasmGetMemoryBuffer(this js.Value, args []js.Value) interface{} {
	return js.Global().Get("Go").Get("_inst").Get("exports").Get("mem").Get("buffer")
}
