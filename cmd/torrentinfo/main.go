package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"torrentcodec/pkg/display"
	"torrentcodec/pkg/files"
	"torrentcodec/pkg/metainfo"
	"torrentcodec/pkg/torrent"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: torrentinfo [flags] <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  decode <file>                  - print the torrent as JSON")
	fmt.Fprintln(os.Stderr, "  name <file>                    - print info.name")
	fmt.Fprintln(os.Stderr, "  info <file>                    - print a summary of the metainfo")
	fmt.Fprintln(os.Stderr, "  hash <file|magnet>             - print the info hash")
	fmt.Fprintln(os.Stderr, "  create <file> <tracker> [out]  - create a single-file torrent")
	fmt.Fprintln(os.Stderr, "  reencode <file> <out>          - decode and re-encode with -to-encoding")
	fmt.Fprintln(os.Stderr, "  escape <file>                  - print file bytes in display form")
	fmt.Fprintln(os.Stderr, "  unescape <text>                - write the bytes of a display string")
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	encoding := flag.String("encoding", torrent.DefaultEncoding, "text encoding of string values")
	toEncoding := flag.String("to-encoding", torrent.DefaultEncoding, "text encoding used by reencode")
	policy := flag.String("errors", "strict", "handling of undecodable text: strict or replace")
	maxDepth := flag.Int("max-depth", 0, "maximum nesting depth (0 for the default)")
	v2 := flag.Bool("v2", false, "hash prints the SHA-256 multihash instead of SHA-1")
	pieceLength := flag.Int64("piece-length", torrent.PIECE_SIZE, "piece length used by create")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	p, err := torrent.ParseErrorPolicy(*policy)
	if err != nil {
		log.Fatalf("Invalid -errors: %v", err)
	}
	opts := []torrent.Option{
		torrent.WithEncoding(*encoding),
		torrent.WithErrors(p),
		torrent.WithMaxDepth(*maxDepth),
	}

	args := flag.Args()
	switch args[0] {
	case "decode":
		needArgs(args, 2)
		err = decodeCmd(args[1], opts)
	case "name":
		needArgs(args, 2)
		err = nameCmd(args[1], opts)
	case "info":
		needArgs(args, 2)
		err = infoCmd(args[1])
	case "hash":
		needArgs(args, 2)
		err = hashCmd(args[1], *v2)
	case "create":
		needArgs(args, 3)
		out := strings.TrimSuffix(args[1], filepath.Ext(args[1]))
		if len(args) > 3 {
			out = args[3]
		}
		err = createCmd(args[1], args[2], out, *pieceLength)
	case "reencode":
		needArgs(args, 3)
		err = reencodeCmd(args[1], args[2], opts, append(opts, torrent.WithEncoding(*toEncoding)))
	case "escape":
		needArgs(args, 2)
		err = escapeCmd(args[1])
	case "unescape":
		needArgs(args, 2)
		err = unescapeCmd(args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n", args[0])
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", args[0], err)
	}
}

func needArgs(args []string, n int) {
	if len(args) < n {
		fmt.Fprintf(os.Stderr, "%s needs %d argument(s).\n", args[0], n-1)
		usage()
		os.Exit(2)
	}
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func decodeCmd(path string, opts []torrent.Option) error {
	raw, err := files.ReadTorrentFile(path)
	if err != nil {
		return err
	}
	d, err := torrent.Decode(raw, opts...)
	if err != nil {
		return err
	}
	out, err := json.Marshal(d)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	// Pretty print for people, compact for pipes.
	if stdoutIsTerminal() {
		var buf bytes.Buffer
		if err := json.Indent(&buf, out, "", "  "); err != nil {
			return errors.Wrap(err, "failed to indent JSON")
		}
		out = buf.Bytes()
	}
	_, err = fmt.Println(string(out))
	return err
}

func nameCmd(path string, opts []torrent.Option) error {
	raw, err := files.ReadTorrentFile(path)
	if err != nil {
		return err
	}
	def := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	fmt.Println(torrent.ReadName(raw, def, opts...))
	return nil
}

func infoCmd(path string) error {
	mi, err := metainfo.Load(path)
	if err != nil {
		return err
	}
	fmt.Printf("Name:         %s\n", mi.Info.Name)
	fmt.Printf("Info hash:    %s\n", mi.HashInfo())
	fmt.Printf("Announce:     %s\n", mi.Announce)
	for i, tier := range mi.AnnounceList {
		fmt.Printf("Tier %d:       %s\n", i, strings.Join(tier, ", "))
	}
	if mi.Comment != "" {
		fmt.Printf("Comment:      %s\n", mi.Comment)
	}
	if mi.CreatedBy != "" {
		fmt.Printf("Created by:   %s\n", mi.CreatedBy)
	}
	fmt.Printf("Total length: %d\n", mi.TotalLength())
	fmt.Printf("Piece length: %d\n", mi.Info.PieceLength)
	fmt.Printf("Pieces:       %d\n", len(mi.PieceHashes()))
	fmt.Printf("Private:      %t\n", mi.IsPrivate())
	for _, f := range mi.Info.Files {
		fmt.Printf("  %s (%d)\n", filepath.Join(f.Path...), f.Length)
	}
	return nil
}

func hashCmd(target string, v2 bool) error {
	if strings.HasPrefix(target, "magnet:") {
		if v2 {
			return errors.New("-v2 needs a torrent file")
		}
		hash, err := torrent.CalculateHash(target, nil)
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	}

	raw, err := files.ReadTorrentFile(target)
	if err != nil {
		return err
	}
	var hash string
	if v2 {
		hash, err = torrent.InfoHashV2(raw)
	} else {
		hash, err = torrent.CalculateHash("", raw)
	}
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func createCmd(src, tracker, out string, pieceLength int64) error {
	if info, err := files.Stat(src); err != nil {
		return err
	} else if info.IsDir {
		return errors.Errorf("%s is a directory", src)
	}
	raw, err := torrent.Create(src, tracker, pieceLength)
	if err != nil {
		return errors.Wrapf(err, "failed to create torrent for %s", src)
	}
	path, err := files.WriteTorrentFile(out, raw)
	if err != nil {
		return err
	}
	hash, err := torrent.InfoHash(raw)
	if err != nil {
		return err
	}
	log.Printf("Wrote %s (info hash %s)", path, hash)
	return nil
}

func reencodeCmd(src, dst string, decodeOpts, encodeOpts []torrent.Option) error {
	raw, err := files.ReadTorrentFile(src)
	if err != nil {
		return err
	}
	d, err := torrent.Decode(raw, decodeOpts...)
	if err != nil {
		return err
	}
	out, err := torrent.Encode(d, encodeOpts...)
	if err != nil {
		return err
	}
	path, err := files.WriteTorrentFile(dst, out)
	if err != nil {
		return err
	}
	log.Printf("Wrote %s", path)
	return nil
}

func escapeCmd(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}
	fmt.Println(display.BytesToDisplay(data))
	return nil
}

func unescapeCmd(text string) error {
	data, err := display.DisplayToBytes(text)
	if err != nil {
		return err
	}
	if stdoutIsTerminal() {
		// Raw bytes could garble the terminal.
		fmt.Println(display.BytesToDisplay(data))
		return nil
	}
	_, err = os.Stdout.Write(data)
	return err
}
