package main

import (
	"context"
	"encoding/base64"
	"flag"
	"io"
	"net/http"
	"os"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/assuntaDC/mnms-go/behavior"
	"github.com/assuntaDC/mnms-go/clock"
	"github.com/assuntaDC/mnms-go/congestion"
	"github.com/assuntaDC/mnms-go/decision"
	"github.com/assuntaDC/mnms-go/entity/vehicle"
	"github.com/assuntaDC/mnms-go/metrics"
	"github.com/assuntaDC/mnms-go/mobility"
	"github.com/assuntaDC/mnms-go/publisher"
	"github.com/assuntaDC/mnms-go/task"
	"github.com/assuntaDC/mnms-go/utils/config"
	"github.com/assuntaDC/mnms-go/utils/input"
	"github.com/assuntaDC/mnms-go/utils/randengine"
)

var (
	configPath = flag.String("config", "", "config file path")
	configData = flag.String("config-data", "", "config file base64 encoded data")
	listenAddr = flag.String("listen", "", "metrics listening address (empty disables the endpoint)")

	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "log level (one of: trace debug info warn error critical off)")

	log = logrus.WithField("module", "main")
)

func loadConfig() config.Config {
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else {
		log.Panic("config file or config data must be specified")
	}
	var c config.Config
	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		log.Panicf("config file load err: %v", err)
	}
	return c
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	// endpoint defaults may come from the environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf(".env load err: %v", err)
	}

	c, err := config.NewRuntimeConfig(loadConfig())
	if err != nil {
		log.Panicf("invalid config: %v", err)
	}
	log.Infof("%+v", c.All)

	net, err := input.LoadNetwork(c.All.Input.Network)
	if err != nil {
		log.Panicf("network load err: %v", err)
	}
	dm, err := input.NewDemand(context.Background(), c.All.Input.Demand)
	if err != nil {
		log.Panicf("demand load err: %v", err)
	}
	if closer, ok := dm.(io.Closer); ok {
		defer closer.Close()
	}

	var policy vehicle.BoardingPolicy
	if c.C.BoardingPolicy == "positional" {
		policy = vehicle.PositionalPolicy{}
	}
	services := buildServices(net, policy)

	engine := randengine.New(c.C.RandomSeed)
	estimator := congestion.NewMovingAverageEstimator(c.All.Decision.CongestionWindow)
	model := buildModel(c, estimator, engine)

	var pub vehicle.Observer
	natsURL := c.All.External.NATS
	if natsURL == "" {
		natsURL = os.Getenv("NATS_URL")
	}
	if natsURL != "" {
		p, err := publisher.NewNATSPublisher(natsURL)
		if err != nil {
			log.Panicf("nats connect err: %v", err)
		}
		defer p.Close()
		pub = p
	}

	collector := metrics.New()
	if *listenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(*listenAddr, mux); err != nil {
				log.Errorf("metrics server err: %v", err)
			}
		}()
	}

	t := task.NewContext(
		clock.New(c.C.Step),
		net.Graph,
		dm,
		net.Planner,
		model,
		services,
		estimator,
		pub,
		collector,
	)
	t.Run()
}

// buildServices creates one transit dispatch per service id found in
// the line definitions, plus a personal car service.
func buildServices(net *input.Network, policy vehicle.BoardingPolicy) []mobility.Service {
	dispatches := make(map[string]*mobility.TransitDispatch)
	var services []mobility.Service
	for _, def := range net.Lines {
		d, ok := dispatches[def.Service]
		if !ok {
			d = mobility.NewTransitDispatch(def.Service, net.Graph, policy)
			dispatches[def.Service] = d
			services = append(services, d)
		}
		d.AddLine(def.Line)
	}
	return append(services, mobility.NewPersonalDispatch("CAR", net.Graph))
}

func buildModel(c *config.RuntimeConfig, estimator congestion.Estimator, engine *randengine.Engine) decision.Model {
	switch c.All.Decision.Model {
	case "behavior_congestion":
		var store behavior.Store
		addr := c.All.External.Redis
		if addr == "" {
			addr = os.Getenv("REDIS_ADDR")
		}
		if addr != "" {
			store = behavior.NewRedisStore(redis.NewClient(&redis.Options{Addr: addr}))
		} else {
			log.Warnf("no redis endpoint configured, behavioral indexes default to zero")
			store = behavior.NewMemoryStore()
		}
		return decision.NewBehaviorCongestionModel(c.All.Decision.TopK, estimator, store, engine)
	default:
		return decision.NewLogitModel(c.All.Decision.Theta, engine)
	}
}
