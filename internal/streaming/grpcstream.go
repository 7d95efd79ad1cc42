package streaming

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"sync/atomic"

	"github.com/gemc-project/gemc-core/internal/eventdata"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// GRPCConfig configures a GRPCStream server, grounded on the teacher's
// visualiser.Config (internal/lidar/visualiser/publisher.go).
type GRPCConfig struct {
	ListenAddr string
	MaxClients int
}

// DefaultGRPCConfig matches the teacher's DefaultConfig shape.
func DefaultGRPCConfig() GRPCConfig {
	return GRPCConfig{ListenAddr: "localhost:50151", MaxClients: 5}
}

// FrameMessage is the wire message GRPCStream broadcasts: a single
// FrameData and nothing else.
type FrameMessage struct {
	Frame eventdata.FrameData
}

// SubscribeRequest is the (trivial, unary) client request that opens a
// server-streaming subscription.
type SubscribeRequest struct{}

type frameClient struct {
	id      string
	frameCh chan *FrameMessage
	doneCh  chan struct{}
}

// GRPCStream is a bonus streaming format beyond spec.md §4.5's five
// mandated formats: instead of writing to a file, it live-broadcasts
// each published frame to subscribed monitoring clients over a
// server-streaming RPC, for the "follow the run live" use case the
// binary-frame file format doesn't serve. Grounded on the teacher's
// visualiser.Publisher: a broadcast goroutine fanning frames out to a
// map of per-client channels, with the same slow-client-drops-frames
// policy.
type GRPCStream struct {
	cfg      GRPCConfig
	server   *grpc.Server
	listener net.Listener

	frameChan chan *FrameMessage
	clients   map[string]*frameClient
	clientsMu sync.RWMutex

	frameCount  atomic.Uint64
	clientCount atomic.Int32

	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	pendingFrame eventdata.FrameData
	pendingPayloads []eventdata.Payload
}

// NewGRPCStream constructs and immediately starts a GRPCStream server
// listening on cfg.ListenAddr.
func NewGRPCStream(cfg GRPCConfig) (*GRPCStream, error) {
	g := &GRPCStream{
		cfg:       cfg,
		frameChan: make(chan *FrameMessage, 100),
		clients:   make(map[string]*frameClient),
		stopCh:    make(chan struct{}),
	}
	if err := g.start(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GRPCStream) start() error {
	lis, err := net.Listen("tcp", g.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("streaming: grpc listen: %w", err)
	}
	g.listener = lis
	g.server = grpc.NewServer()
	g.server.RegisterService(&frameStreamServiceDesc, g)
	g.running.Store(true)

	g.wg.Add(1)
	go g.broadcastLoop()

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if err := g.server.Serve(lis); err != nil && g.running.Load() {
			log.Printf("streaming: grpc server error: %v", err)
		}
	}()
	return nil
}

func (g *GRPCStream) broadcastLoop() {
	defer g.wg.Done()
	for {
		select {
		case <-g.stopCh:
			return
		case frame := <-g.frameChan:
			g.clientsMu.RLock()
			for _, c := range g.clients {
				select {
				case c.frameCh <- frame:
				default:
				}
			}
			g.clientsMu.RUnlock()
		}
	}
}

// StreamFrames is the server-streaming RPC handler: it registers the
// calling client and forwards broadcast frames until the client
// disconnects.
func (g *GRPCStream) StreamFrames(_ *SubscribeRequest, stream grpc.ServerStreamingServer[FrameMessage]) error {
	id := fmt.Sprintf("client-%d", g.clientCount.Add(1))
	c := &frameClient{id: id, frameCh: make(chan *FrameMessage, 10), doneCh: make(chan struct{})}
	g.clientsMu.Lock()
	g.clients[id] = c
	g.clientsMu.Unlock()
	defer func() {
		g.clientsMu.Lock()
		delete(g.clients, id)
		g.clientsMu.Unlock()
		g.clientCount.Add(-1)
	}()

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-g.stopCh:
			return nil
		case f := <-c.frameCh:
			if err := stream.Send(f); err != nil {
				return err
			}
		}
	}
}

var frameStreamServiceDesc = grpc.ServiceDesc{
	ServiceName: "gemc.streaming.FrameStream",
	HandlerType: (*frameStreamServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamFrames",
			ServerStreams: true,
			Handler: func(srv any, stream grpc.ServerStream) error {
				req := new(SubscribeRequest)
				if err := stream.RecvMsg(req); err != nil && err != io.EOF {
					return err
				}
				return srv.(frameStreamServer).StreamFrames(req, &frameStreamStreamingServer{stream})
			},
		},
	},
}

type frameStreamServer interface {
	StreamFrames(*SubscribeRequest, grpc.ServerStreamingServer[FrameMessage]) error
}

type frameStreamStreamingServer struct {
	grpc.ServerStream
}

func (s *frameStreamStreamingServer) Send(m *FrameMessage) error { return s.ServerStream.SendMsg(m) }

// Format implementation: per-event hooks are no-ops (this format only
// carries frames), per-frame hooks accumulate into pendingFrame until
// EndStream broadcasts it.

func (g *GRPCStream) Extension() string { return "grpc" }

func (g *GRPCStream) StartEvent(io.Writer, int) error                              { return nil }
func (g *GRPCStream) PublishEventHeader(io.Writer, eventdata.EventHeader) error     { return nil }
func (g *GRPCStream) PublishTruth(io.Writer, string, eventdata.TrueInfo) error      { return nil }
func (g *GRPCStream) PublishDigitized(io.Writer, string, eventdata.Digitized) error { return nil }
func (g *GRPCStream) EndEvent(io.Writer) error                                     { return nil }

func (g *GRPCStream) StartStream(io.Writer) error {
	g.pendingPayloads = nil
	return nil
}

func (g *GRPCStream) PublishFrameHeader(_ io.Writer, f eventdata.FrameData) error {
	g.pendingFrame = f
	return nil
}

func (g *GRPCStream) PublishPayload(_ io.Writer, p eventdata.Payload) error {
	g.pendingPayloads = append(g.pendingPayloads, p)
	return nil
}

func (g *GRPCStream) EndStream(io.Writer) error {
	frame := g.pendingFrame
	frame.Payloads = g.pendingPayloads
	select {
	case g.frameChan <- &FrameMessage{Frame: frame}:
		g.frameCount.Add(1)
	default:
		log.Printf("streaming: grpc dropping frame %d, channel full", frame.FrameID)
	}
	return nil
}

// Close gracefully stops the gRPC server and its broadcast goroutine.
func (g *GRPCStream) Close(io.Writer) error {
	if !g.running.Load() {
		return nil
	}
	g.running.Store(false)
	close(g.stopCh)
	g.server.GracefulStop()
	g.listener.Close()
	g.wg.Wait()
	return nil
}
