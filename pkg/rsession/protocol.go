package rsession

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jmaanova/jmaanova/pkg/rsyntax"
)

// Every statement is evaluated by .jm.eval inside tryCatch, in the global
// environment, and its value written back as a frame:
//
//	@@JM-BEGIN <nonce>
//	<kind> <class> <length>
//	<one encoded element per line>
//	@@JM-END <nonce>
//
// Anything printed before the begin marker is console output.
const (
	beginMarker = "@@JM-BEGIN "
	endMarker   = "@@JM-END "
	errorKind   = "error"
)

// prelude defines the evaluation and encoding helpers in the interpreter.
// Dot names keep them out of ls().
const prelude = `.jm.encode <- function(value) {
  cls <- gsub("[[:space:]]", "_", class(value)[1])
  if (is.null(value)) return(list(kind="null", class="NULL", values=character(0)))
  if (is.factor(value)) { value <- as.character(value); cls <- "character" }
  if (is.logical(value) && is.atomic(value)) return(list(kind="logical", class=cls, values=ifelse(is.na(value), "NA", ifelse(value, "TRUE", "FALSE"))))
  if (is.integer(value)) return(list(kind="integer", class=cls, values=sprintf("%d", as.vector(value))))
  if (is.double(value)) return(list(kind="double", class=cls, values=sprintf("%.17g", as.vector(value))))
  if (is.character(value)) return(list(kind="character", class=cls, values=encodeString(as.vector(value), quote='"')))
  list(kind="other", class=cls, values=character(0))
}
.jm.emit <- function(nonce, reply) {
  cat("\n@@JM-BEGIN ", nonce, "\n", sep="")
  cat(reply$kind, " ", reply$class, " ", length(reply$values), "\n", sep="")
  if (length(reply$values) > 0) cat(reply$values, sep="\n", fill=FALSE)
  if (length(reply$values) > 0) cat("\n")
  cat("@@JM-END ", nonce, "\n", sep="")
  flush(stdout())
}
.jm.eval <- function(text, nonce) {
  reply <- tryCatch(.jm.encode(eval(parse(text=text), envir=globalenv())),
    error=function(e) list(kind="error", class="error", values=encodeString(conditionMessage(e), quote='"')))
  .jm.emit(nonce, reply)
  invisible(NULL)
}
`

// request renders the line sent to the interpreter for one statement.
func request(statement, nonce string) string {
	return rsyntax.Call(".jm.eval", rsyntax.Positional(rsyntax.String(statement)),
		rsyntax.Positional(rsyntax.String(nonce))) + "\n"
}

// readLine returns the next line without its terminator.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readReply consumes output up to and including the frame for nonce.
// Console output seen before the frame is logged at debug level.
// The returned error is an *EvalError when R signalled an error.
func readReply(r *bufio.Reader, statement, nonce string) (*Value, error) {
	begin := beginMarker + nonce
	end := endMarker + nonce

	for {
		line, err := readLine(r)
		if err != nil {
			return nil, errors.Wrap(err, "interpreter output ended before reply")
		}
		if idx := strings.Index(line, begin); idx >= 0 {
			if idx > 0 {
				log.Debugf("R: %s", line[:idx])
			}
			break
		}
		if line != "" {
			log.Debugf("R: %s", line)
		}
	}

	header, err := readLine(r)
	if err != nil {
		return nil, errors.Wrap(err, "reply header missing")
	}
	fields := strings.Fields(header)
	if len(fields) != 3 {
		return nil, errors.Errorf("malformed reply header %q", header)
	}
	length, err := strconv.Atoi(fields[2])
	if err != nil || length < 0 {
		return nil, errors.Errorf("malformed reply length in %q", header)
	}

	lines := make([]string, length)
	for i := range lines {
		if lines[i], err = readLine(r); err != nil {
			return nil, errors.Wrapf(err, "reply ended after %d of %d elements", i, length)
		}
	}

	trailer, err := readLine(r)
	if err != nil {
		return nil, errors.Wrap(err, "reply trailer missing")
	}
	if trailer != end {
		return nil, errors.Errorf("malformed reply trailer %q", trailer)
	}

	if fields[0] == errorKind {
		message := ""
		if length > 0 {
			message = decodeString(lines[0])
		}
		return nil, &EvalError{Statement: statement, Message: message}
	}
	return decodeValue(fields[0], fields[1], lines)
}

// decodeValue builds a Value from encoded elements.
func decodeValue(kind, class string, lines []string) (*Value, error) {
	v := &Value{class: class, na: make([]bool, len(lines))}
	switch kind {
	case "null":
		v.kind = Null
	case "other":
		v.kind = Other
	case "logical":
		v.kind = Logical
		v.logicals = make([]bool, len(lines))
		for i, line := range lines {
			switch line {
			case "TRUE":
				v.logicals[i] = true
			case "FALSE":
			case "NA":
				v.na[i] = true
			default:
				return nil, errors.Errorf("malformed logical %q", line)
			}
		}
	case "integer":
		v.kind = Integer
		v.ints = make([]int, len(lines))
		for i, line := range lines {
			if line == "NA" {
				v.ints[i] = NAInteger
				v.na[i] = true
				continue
			}
			n, err := strconv.Atoi(line)
			if err != nil {
				return nil, errors.Wrapf(err, "malformed integer %q", line)
			}
			v.ints[i] = n
		}
	case "double":
		v.kind = Double
		v.doubles = make([]float64, len(lines))
		for i, line := range lines {
			if line == "NA" {
				v.doubles[i] = math.NaN()
				v.na[i] = true
				continue
			}
			d, err := strconv.ParseFloat(line, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "malformed double %q", line)
			}
			v.doubles[i] = d
		}
	case "character":
		v.kind = String
		v.strings = make([]string, len(lines))
		for i, line := range lines {
			if line == "NA" {
				v.na[i] = true
				continue
			}
			v.strings[i] = decodeString(line)
		}
	default:
		return nil, errors.Errorf("unknown reply kind %q", kind)
	}
	return v, nil
}

// decodeString undoes encodeString(quote='"'). R's escapes are a subset of
// Go's, so anything Unquote rejects is kept without its quotes.
func decodeString(encoded string) string {
	if s, err := strconv.Unquote(encoded); err == nil {
		return s
	}
	return strings.TrimSuffix(strings.TrimPrefix(encoded, `"`), `"`)
}
