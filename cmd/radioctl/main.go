// Command radioctl is a minimal command-line client for the control
// protocol: it can poll a single channel, tune it, or enumerate every
// channel answering on a group via discovery.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/cwsl/radiod-engine/internal/freqparse"
	"github.com/cwsl/radiod-engine/internal/mcast"
	"github.com/cwsl/radiod-engine/internal/tlv"
	"github.com/cwsl/radiod-engine/internal/wire"
)

func main() {
	group := flag.String("group", "radiod-engine.local:5006", "status/command multicast group")
	ssrcFlag := flag.String("ssrc", "", "channel SSRC, hex or decimal (required for poll/tune)")
	freqFlag := flag.String("freq", "", "tune frequency, accepts SI suffixes and the funky 147m435 form")
	timeout := flag.Duration("timeout", 2*time.Second, "how long to wait for replies")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: radioctl [-group addr] <poll|tune|enumerate>")
		os.Exit(2)
	}

	addr, err := mcast.ResolveMulticastAddr(*group)
	if err != nil {
		log.Fatalf("resolve group: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sock, err := mcast.Listen(ctx, addr, nil)
	if err != nil {
		log.Fatalf("listen on %s: %v", addr, err)
	}
	defer sock.Close()

	switch flag.Arg(0) {
	case "poll":
		ssrc := parseSSRC(*ssrcFlag)
		pollOne(ctx, sock, ssrc)
	case "tune":
		ssrc := parseSSRC(*ssrcFlag)
		freq, err := freqparse.Parse(*freqFlag, true)
		if err != nil {
			log.Fatalf("parse frequency %q: %v", *freqFlag, err)
		}
		tune(sock, ssrc, freq)
	case "enumerate":
		enumerate(ctx, sock)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", flag.Arg(0))
		os.Exit(2)
	}
}

func parseSSRC(s string) uint32 {
	if s == "" {
		log.Fatal("-ssrc is required")
	}
	base := 10
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		log.Fatalf("parse ssrc %q: %v", s, err)
	}
	return uint32(v)
}

func pollRequest(ssrc uint32) []byte {
	var buf []byte
	buf = tlv.EncodeUint32(buf, wire.OutputSSRC, ssrc)
	buf = tlv.EncodeEOL(buf)
	return append([]byte{byte(wire.Cmd)}, buf...)
}

func pollOne(ctx context.Context, sock *mcast.Socket, ssrc uint32) {
	if err := sock.Send(pollRequest(ssrc)); err != nil {
		log.Fatalf("send poll: %v", err)
	}
	buf := make([]byte, 65536)
	for {
		n, _, err := sock.ReadFrom(ctx, buf)
		if err != nil {
			log.Fatalf("no reply: %v", err)
		}
		msg, ok := wire.Decode(buf[:n])
		if !ok || !wire.ForUs(msg.Fields, ssrc) {
			continue
		}
		printStatus(msg)
		return
	}
}

func tune(sock *mcast.Socket, ssrc uint32, freq float64) {
	var buf []byte
	buf = tlv.EncodeUint32(buf, wire.OutputSSRC, ssrc)
	buf = tlv.EncodeFloat64(buf, wire.RadioFrequency, freq)
	buf = tlv.EncodeEOL(buf)
	pkt := append([]byte{byte(wire.Cmd)}, buf...)
	if err := sock.Send(pkt); err != nil {
		log.Fatalf("send tune: %v", err)
	}
	fmt.Printf("tuned %#x to %.3f Hz\n", ssrc, freq)
}

func enumerate(ctx context.Context, sock *mcast.Socket) {
	pkt := pollRequest(wire.BroadcastSSRC)
	if err := sock.Send(pkt); err != nil {
		log.Fatalf("send discovery poll: %v", err)
	}

	reg := mcast.NewRegistry()
	buf := make([]byte, 65536)
	for {
		n, from, err := sock.ReadFrom(ctx, buf)
		if err != nil {
			break
		}
		msg, ok := wire.Decode(buf[:n])
		if !ok || msg.Kind != wire.Status {
			continue
		}
		ssrc, ok := wire.OutputSSRCOf(msg.Fields)
		if !ok {
			continue
		}
		if reg.Observe(ssrc, from, time.Now()) {
			fmt.Printf("discovered channel %#x at %s\n", ssrc, from)
		}
	}
	for _, p := range reg.Peers() {
		fmt.Printf("%#x\t%s\n", p.SSRC, p.Addr)
	}
}

func printStatus(msg wire.Message) {
	for _, f := range msg.Fields {
		switch f.Type {
		case wire.RadioFrequency, wire.SecondLOFrequency, wire.ShiftFrequency, wire.LowEdge, wire.HighEdge,
			wire.Gain, wire.Headroom, wire.AGCThreshold, wire.AGCRecoveryRate, wire.AGCHangtime,
			wire.SquelchOpen, wire.SquelchClose:
			fmt.Printf("%s: %g\n", wire.TagName(f.Type), tlv.DecodeFloat64(f.Value))
		case wire.OutputEncoding:
			fmt.Printf("%s: %s\n", wire.TagName(f.Type), tlv.DecodeString(f.Value))
		case wire.DemodType:
			fmt.Printf("%s: %d\n", wire.TagName(f.Type), tlv.DecodeUint8(f.Value))
		default:
			fmt.Printf("%s: %d bytes\n", wire.TagName(f.Type), len(f.Value))
		}
	}
}
