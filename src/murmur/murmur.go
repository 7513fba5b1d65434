// Package murmur wires a node, its stdio transport, and the optional HTTP
// service into a runnable process.
package murmur

import (
	"io"

	"github.com/mosaicnetworks/murmur/src/config"
	"github.com/mosaicnetworks/murmur/src/net"
	"github.com/mosaicnetworks/murmur/src/node"
	"github.com/mosaicnetworks/murmur/src/service"
	"github.com/mosaicnetworks/murmur/src/telemetry"
	"github.com/mosaicnetworks/murmur/src/version"
	"github.com/sirupsen/logrus"
)

// Murmur is a murmur process: one node reading Envelopes from in and writing
// them to out.
type Murmur struct {
	Config    *config.Config
	Node      *node.Node
	Transport net.Transport
	Service   *service.Service
	Metrics   *telemetry.Metrics

	in  io.Reader
	out io.Writer

	logger *logrus.Entry
}

// NewMurmur ...
func NewMurmur(c *config.Config, in io.Reader, out io.Writer) *Murmur {
	return &Murmur{
		Config: c,
		in:     in,
		out:    out,
		logger: c.Logger(),
	}
}

func (m *Murmur) initTransport() error {
	m.Transport = net.NewStdioTransport(m.in, m.out, m.logger.WithField("component", "transport"))
	return nil
}

func (m *Murmur) initNode() error {
	m.Node = node.NewNode(m.Config.NodeConfig(), m.Transport)

	if m.Metrics != nil {
		m.Node.SetMetrics(m.Metrics)
	}

	return nil
}

func (m *Murmur) initService() error {
	if m.Config.NoService {
		return nil
	}

	// Metrics go to the process-wide registry, which only the service
	// exposes.
	m.Metrics = telemetry.NewMetrics(telemetry.Registry)
	telemetry.SetBuildInfo(version.Version, version.GitCommit)

	return nil
}

// Init builds every component from the configuration.
func (m *Murmur) Init() error {
	m.logger.WithFields(logrus.Fields{
		"retry_interval": m.Config.RetryInterval,
		"retry_jitter":   m.Config.RetryJitter,
		"retry_window":   m.Config.RetryWindow,
		"no_service":     m.Config.NoService,
	}).Debug("Init")

	if err := m.initService(); err != nil {
		return err
	}

	if err := m.initTransport(); err != nil {
		return err
	}

	if err := m.initNode(); err != nil {
		return err
	}

	if !m.Config.NoService {
		m.Service = service.NewService(m.Config.ServiceAddr, m.Node, m.logger.WithField("component", "service"))
	}

	return nil
}

// Run serves the node until its input ends or a fatal error occurs.
func (m *Murmur) Run() error {
	if m.Service != nil {
		go m.Service.Serve()
	}

	go m.Transport.Listen()

	return m.Node.Run()
}
