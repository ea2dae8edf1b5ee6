package override

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// Snapshot returns every resident entry, least recently observed first, so
// that Restore(Snapshot()) reproduces the same LRU order.
func (m *Model) Snapshot() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, 0, m.lru.Len())
	for el := m.lru.Back(); el != nil; el = el.Prev() {
		obs := el.Value.(*observation)
		e := Entry{Fingerprint: obs.fingerprint, Count: obs.count}
		for _, v := range obs.order {
			e.Candidates = append(e.Candidates, *obs.candidates[v])
		}
		out = append(out, e)
	}

	return out
}

// Restore loads entries in least-recent-first order. An entry replaces any
// resident entry with the same fingerprint. Capacity is enforced afterwards,
// so the most recent entries survive.
func (m *Model) Restore(entries []Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		if e.Fingerprint == "" || len(e.Candidates) == 0 {
			continue
		}
		obs := newObservation(e.Fingerprint)
		obs.count = e.Count
		for _, c := range e.Candidates {
			if _, dup := obs.candidates[c.Value]; dup || c.Value == "" {
				continue
			}
			cc := c
			obs.candidates[c.Value] = &cc
			obs.order = append(obs.order, c.Value)
		}
		if el, ok := m.index[e.Fingerprint]; ok {
			m.lru.Remove(el)
		}
		m.index[e.Fingerprint] = m.lru.PushFront(obs)
	}
	m.evict()
	m.options.Logger.Debug("override entries restored", "entries", len(entries), "resident", m.lru.Len())
}

// EncodeEntry renders one entry as a single line (without newline):
//
//	fingerprint<TAB>count<TAB>value=count@timestamp;value=count@timestamp
//
// Fingerprints and values are query-escaped so separators cannot collide.
func EncodeEntry(e Entry) string {
	var sb strings.Builder
	sb.WriteString(url.QueryEscape(e.Fingerprint))
	sb.WriteByte('\t')
	sb.WriteString(strconv.Itoa(e.Count))
	sb.WriteByte('\t')
	for i, c := range e.Candidates {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(url.QueryEscape(c.Value))
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(c.Count))
		sb.WriteByte('@')
		sb.WriteString(strconv.FormatFloat(c.Timestamp, 'f', -1, 64))
	}

	return sb.String()
}

// DecodeEntry parses a line produced by EncodeEntry.
func DecodeEntry(line string) (Entry, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 3 {
		return Entry{}, fmt.Errorf("%w: want 3 fields, got %d", ErrMalformedRecord, len(fields))
	}
	fp, err := url.QueryUnescape(fields[0])
	if err != nil || fp == "" {
		return Entry{}, fmt.Errorf("%w: fingerprint %q", ErrMalformedRecord, fields[0])
	}
	count, err := strconv.Atoi(fields[1])
	if err != nil || count < 0 {
		return Entry{}, fmt.Errorf("%w: count %q", ErrMalformedRecord, fields[1])
	}

	e := Entry{Fingerprint: fp, Count: count}
	for _, part := range strings.Split(fields[2], ";") {
		c, err := decodeCandidate(part)
		if err != nil {
			return Entry{}, err
		}
		e.Candidates = append(e.Candidates, c)
	}

	return e, nil
}

func decodeCandidate(part string) (Candidate, error) {
	eq := strings.LastIndexByte(part, '=')
	at := strings.LastIndexByte(part, '@')
	if eq <= 0 || at < eq {
		return Candidate{}, fmt.Errorf("%w: candidate %q", ErrMalformedRecord, part)
	}
	value, err := url.QueryUnescape(part[:eq])
	if err != nil {
		return Candidate{}, fmt.Errorf("%w: candidate value %q", ErrMalformedRecord, part[:eq])
	}
	count, err := strconv.Atoi(part[eq+1 : at])
	if err != nil {
		return Candidate{}, fmt.Errorf("%w: candidate count %q", ErrMalformedRecord, part)
	}
	ts, err := strconv.ParseFloat(part[at+1:], 64)
	if err != nil {
		return Candidate{}, fmt.Errorf("%w: candidate timestamp %q", ErrMalformedRecord, part)
	}

	return Candidate{Value: value, Count: count, Timestamp: ts}, nil
}

// WriteTo writes the snapshot, one encoded entry per line.
func (m *Model) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	for _, e := range m.Snapshot() {
		n, err := bw.WriteString(EncodeEntry(e) + "\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, bw.Flush()
}

// ReadFrom restores entries from lines written by WriteTo. Blank lines are
// skipped; the first malformed line aborts with ErrMalformedRecord and
// nothing is restored.
func (m *Model) ReadFrom(r io.Reader) (int64, error) {
	var (
		entries []Entry
		total   int64
		lineNo  int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		total += int64(len(line)) + 1
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, err := DecodeEntry(line)
		if err != nil {
			return total, fmt.Errorf("line %d: %w", lineNo, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return total, err
	}
	m.Restore(entries)

	return total, nil
}
