// -----------------  aesgo/main.go  -----------------
// The directory `aesgo` holds a standalone tool: a one-shot AES
// encrypt/decrypt utility built directly on the aesdh AES package,
// independent of the key-exchange session tool. It is not imported by
// anything under tunnel/.
// Usage:
//     go run ./aesgo --mode=ENC-128-CTR --keyfile=k.bin --infile=in --outfile=out
// -----------------------------------------------------
package main

import (
	"bufio"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	aescore "github.com/anvilcrypt/aesdh/aes"
	"github.com/anvilcrypt/aesdh/internal/exception"
	"github.com/urfave/cli/v2"
)

const nonceSize = 8

type parsedMode struct {
	encrypt bool
	keySize int
	name    string // ECB, CTR, GCM
}

// parseModeFlag validates the exact 11-character "OP-KSZ-MODE" form, e.g.
// "ENC-128-CTR" or "DEC-256-GCM".
func parseModeFlag(s string) (parsedMode, error) {
	if len(s) != 11 {
		return parsedMode{}, exception.New(exception.ArgumentError, "--mode must be exactly 11 characters, e.g. ENC-128-CTR").Apply(s)
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return parsedMode{}, exception.New(exception.ArgumentError, "--mode must have the form OP-KSZ-MODE").Apply(s)
	}
	var pm parsedMode
	switch parts[0] {
	case "ENC":
		pm.encrypt = true
	case "DEC":
		pm.encrypt = false
	default:
		return parsedMode{}, exception.New(exception.ArgumentError, "--mode operation must be ENC or DEC").Apply(parts[0])
	}
	switch parts[1] {
	case "128":
		pm.keySize = 16
	case "192":
		pm.keySize = 24
	case "256":
		pm.keySize = 32
	default:
		return parsedMode{}, exception.New(exception.ArgumentError, "--mode key size must be 128, 192, or 256").Apply(parts[1])
	}
	switch parts[2] {
	case "ECB", "CTR", "GCM":
		pm.name = parts[2]
	default:
		return parsedMode{}, exception.New(exception.ArgumentError, "--mode cipher must be ECB, CTR, or GCM").Apply(parts[2])
	}
	return pm, nil
}

func main() {
	app := &cli.App{
		Name:  "aesgo",
		Usage: "encrypt or decrypt a file (or stdin/stdout) with the from-scratch AES implementation",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Required: true, Usage: "OP-KSZ-MODE, e.g. ENC-128-CTR"},
			&cli.StringFlag{Name: "infile", Usage: "input file path; if empty, read from the terminal"},
			&cli.StringFlag{Name: "outfile", Usage: "output file path; if empty, write to the terminal"},
			&cli.StringFlag{Name: "keyfile", Usage: "key material file path; if empty, prompt on the terminal"},
			&cli.BoolFlag{Name: "verbose", Usage: "also print the nonce and ciphertext bytes"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	pm, err := parseModeFlag(c.String("mode"))
	if err != nil {
		return err
	}

	key, err := loadKey(c.String("keyfile"), pm.keySize)
	if err != nil {
		return err
	}

	input, err := readInput(c.String("infile"))
	if err != nil {
		return err
	}

	cipher, err := aescore.New(key)
	if err != nil {
		return err
	}

	var output []byte
	if pm.encrypt {
		output, err = encrypt(cipher, pm, input, c.Bool("verbose"))
	} else {
		output, err = decrypt(cipher, pm, input, c.String("infile"), c.Bool("verbose"))
	}
	if err != nil {
		return err
	}

	return writeOutput(c.String("outfile"), output)
}

// loadKey reads key material from keyfile, or prompts on the terminal
// when keyfile is empty. Material shorter than keySize is zero-padded
// with a warning, per the file-format note in the standalone tool spec.
func loadKey(keyfile string, keySize int) ([]byte, error) {
	var raw []byte
	if keyfile != "" {
		f, err := os.Open(keyfile)
		if err != nil {
			return nil, exception.New(exception.IoError, "aesgo: failed to open keyfile").Apply(err)
		}
		defer f.Close()
		raw, err = io.ReadAll(f)
		if err != nil {
			return nil, exception.New(exception.IoError, "aesgo: failed to read keyfile").Apply(err)
		}
	} else {
		fmt.Fprint(os.Stderr, "key: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, exception.New(exception.IoError, "aesgo: failed to read key from terminal").Apply(err)
		}
		raw = []byte(strings.TrimRight(line, "\r\n"))
	}
	if len(raw) < keySize {
		fmt.Fprintf(os.Stderr, "aesgo: key material is %d bytes, zero-padding to %d\n", len(raw), keySize)
		padded := make([]byte, keySize)
		copy(padded, raw)
		return padded, nil
	}
	return raw[:keySize], nil
}

func readInput(infile string) ([]byte, error) {
	if infile != "" {
		data, err := os.ReadFile(infile)
		if err != nil {
			return nil, exception.New(exception.IoError, "aesgo: failed to read infile").Apply(err)
		}
		return data, nil
	}
	fmt.Fprintln(os.Stderr, "reading from terminal, Ctrl-D to end:")
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, exception.New(exception.IoError, "aesgo: failed to read stdin").Apply(err)
	}
	return data, nil
}

func writeOutput(outfile string, data []byte) error {
	if outfile != "" {
		if err := os.WriteFile(outfile, data, 0o600); err != nil {
			return exception.New(exception.IoError, "aesgo: failed to write outfile").Apply(err)
		}
		return nil
	}
	_, err := os.Stdout.Write(data)
	return err
}

// encrypt produces 8 bytes of little-endian nonce, followed by
// ciphertext, followed by a 16-byte GCM tag when mode is GCM.
func encrypt(cipher *aescore.Cipher_, pm parsedMode, plaintext []byte, verbose bool) ([]byte, error) {
	var nonceBuf [nonceSize]byte
	if _, err := rand.Read(nonceBuf[:]); err != nil {
		return nil, exception.New(exception.IoError, "aesgo: failed to draw a random nonce").Apply(err)
	}
	nonce := binary.LittleEndian.Uint64(nonceBuf[:])

	var ciphertext []byte
	var tag []byte
	switch pm.name {
	case "ECB":
		ciphertext = cipher.EncryptECB(plaintext)
	case "CTR":
		ciphertext = cipher.CTR(plaintext, nonce)
	case "GCM":
		ct, t := cipher.SealGCM(nonceBuf[:], plaintext)
		ciphertext, tag = ct, t[:]
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "nonce: % x\nciphertext: % x\n", nonceBuf, ciphertext)
	}

	out := append(append([]byte{}, nonceBuf[:]...), ciphertext...)
	out = append(out, tag...)
	return out, nil
}

// decrypt splits infile's 8-byte nonce prefix (and 16-byte GCM tag
// suffix, when mode is GCM) back off before decrypting. For ECB read
// from the terminal, the nonce is prompted textually even though ECB
// itself never uses it, for compatibility with encrypt's output shape.
func decrypt(cipher *aescore.Cipher_, pm parsedMode, input []byte, infile string, verbose bool) ([]byte, error) {
	var nonceBuf [nonceSize]byte
	body := input
	if infile == "" && pm.name == "ECB" {
		fmt.Fprint(os.Stderr, "nonce (hex, unused by ECB): ")
		bufio.NewReader(os.Stdin).ReadString('\n')
	} else {
		if len(body) < nonceSize {
			return nil, exception.New(exception.ArgumentError, "aesgo: input shorter than the nonce prefix")
		}
		copy(nonceBuf[:], body[:nonceSize])
		body = body[nonceSize:]
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "nonce: % x\nciphertext: % x\n", nonceBuf, body)
	}

	switch pm.name {
	case "ECB":
		pt, err := cipher.DecryptECB(body)
		if err != nil {
			return nil, err
		}
		return pt, nil
	case "CTR":
		nonce := binary.LittleEndian.Uint64(nonceBuf[:])
		return cipher.CTR(body, nonce), nil
	case "GCM":
		if len(body) < aescore.TagSize {
			return nil, exception.New(exception.ArgumentError, "aesgo: input shorter than the GCM tag suffix")
		}
		ct := body[:len(body)-aescore.TagSize]
		var tag [aescore.TagSize]byte
		copy(tag[:], body[len(body)-aescore.TagSize:])
		pt, err := cipher.OpenGCM(nonceBuf[:], ct, tag)
		if err != nil {
			return nil, err
		}
		return pt, nil
	}
	return nil, exception.New(exception.ArgumentError, "aesgo: unreachable mode").Apply(pm.name)
}
