package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/seqtx/api"
	"github.com/matt-g-everett/seqtx/stream"
	"github.com/matt-g-everett/seqtx/timeline"
)

type app struct {
	Config   stream.Config
	Client   mqtt.Client
	Engine   *timeline.Engine
	Streamer *stream.Streamer
	Server   *api.Server
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	a.Streamer.Subscribe()
}

func (a *app) run() {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		panic(token.Error())
	}
	a.Streamer.Run()
}

func (a *app) readConfig(configPath string) {
	f, err := os.Open(configPath)
	if err != nil {
		panic(err)
	}

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(&a.Config)
	if err != nil {
		panic(err)
	}
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	// Read the config
	a := newApp()
	a.readConfig(*configPath)
	log.Printf("Config: %+v", a.Config)

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID("seqtx").
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	loader := stream.NewSequenceLoader(a.Config.Sequence.Images, a.Config.Sequence.Pixels)
	if a.Config.Playback.Preload {
		if err := loader.PreloadAll(); err != nil {
			log.Fatalf("Preload failed: %v", err)
		}
	}

	a.Streamer = stream.NewStreamer(a.Config, a.Client, loader)

	// The engine reports changes to both the streamer and the websocket
	// feed; neither handler calls back into the engine.
	opts := a.Config.PlaybackOptions()
	opts.OnFrame = func(frame int) {
		a.Streamer.ShowFrame(frame)
		a.Server.NotifyFrame(frame)
	}
	opts.OnState = func(state timeline.PlaybackState) {
		a.Streamer.PublishState(state)
		a.Server.NotifyState(state)
	}

	// The server is constructed before the engine plays its first frame, so
	// build the engine last with autostart deferred to after wiring.
	autoStart := opts.AutoStart
	opts.AutoStart = false
	a.Engine = timeline.NewEngine(opts, loader.Len())
	a.Streamer.SetEngine(a.Engine)
	a.Server = api.NewServer(a.Config.Api.Addr, a.Engine)
	if autoStart && loader.Len() > 0 {
		a.Engine.Play()
	}

	go a.Server.Serve()

	a.run()
}
