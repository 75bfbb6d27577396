package util

import "bytes"

// CommitLogger collects written bytes and hands every complete line to Committer.
type CommitLogger struct {
	Committer func(p []byte)
	buf       []byte
}

func (l *CommitLogger) Reserve(n int) {
	if cap(l.buf) >= n {
		return
	}

	newbuf := make([]byte, len(l.buf), n)
	copy(newbuf, l.buf)
	l.buf = newbuf
}

func (l *CommitLogger) Write(p []byte) (n int, err error) {
	l.buf = append(l.buf, p...)
	for {
		i := bytes.IndexByte(l.buf, '\n')
		if i < 0 {
			break
		}
		l.commit(l.buf[:i])
		l.buf = l.buf[i+1:]
	}
	return len(p), nil
}

// Commit hands over whatever partial line is buffered.
func (l *CommitLogger) Commit() {
	if len(l.buf) > 0 {
		l.commit(l.buf)
	}
	l.Reset()
}

func (l *CommitLogger) commit(line []byte) {
	if l.Committer != nil {
		l.Committer(line)
	}
}

func (l *CommitLogger) Reset() {
	l.buf = l.buf[:0]
}
