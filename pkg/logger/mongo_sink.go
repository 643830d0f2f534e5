package logger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Entry is one log line as stored in the logs collection. request_id and
// user_id are lifted out of the attributes so they can be indexed.
type Entry struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	UserID    string    `bson:"user_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

type inserter interface {
	InsertMany(ctx context.Context, docs []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// sinkState is shared by every handler derived through WithAttrs/WithGroup.
type sinkState struct {
	entries chan Entry
	done    chan struct{}
	stop    sync.Once
	wg      sync.WaitGroup
	dropped atomic.Int64

	batch int
	every time.Duration
	out   inserter
	after func()
}

// MongoSink is a slog.Handler that writes Info and above to MongoDB in
// batches from one goroutine. Handle never blocks: entries arriving while
// the buffer is full are dropped and counted.
type MongoSink struct {
	st     *sinkState
	attrs  []slog.Attr
	prefix string
}

// DialMongoSink connects to uri and writes into db.collection.
func DialMongoSink(ctx context.Context, uri, db, collection string) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second).
		SetMaxPoolSize(4))
	if err != nil {
		return nil, fmt.Errorf("log sink: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("log sink: ping: %w", err)
	}

	col := client.Database(db).Collection(collection)
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "time", Value: -1}}},
		{Keys: bson.D{{Key: "request_id", Value: 1}}},
	})

	s := newMongoSink(col, 64, 2*time.Second)
	s.st.after = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return s, nil
}

func newMongoSink(out inserter, batch int, every time.Duration) *MongoSink {
	st := &sinkState{
		entries: make(chan Entry, 4096),
		done:    make(chan struct{}),
		batch:   batch,
		every:   every,
		out:     out,
	}
	st.wg.Add(1)
	go st.run()
	return &MongoSink{st: st}
}

func (s *MongoSink) Enabled(_ context.Context, l slog.Level) bool { return l >= slog.LevelInfo }

func (s *MongoSink) Handle(_ context.Context, r slog.Record) error {
	e := Entry{Time: r.Time, Level: r.Level.String(), Msg: r.Message}

	add := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			e.RequestID = a.Value.String()
			return true
		case "user_id":
			e.UserID = a.Value.String()
			return true
		}
		if e.Attrs == nil {
			e.Attrs = bson.M{}
		}
		v := a.Value.Resolve().Any()
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		e.Attrs[s.prefix+a.Key] = v
		return true
	}
	for _, a := range s.attrs {
		add(a)
	}
	r.Attrs(add)

	select {
	case s.st.entries <- e:
	default:
		s.st.dropped.Add(1)
	}
	return nil
}

func (s *MongoSink) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MongoSink{st: s.st, prefix: s.prefix, attrs: append(append([]slog.Attr(nil), s.attrs...), attrs...)}
}

func (s *MongoSink) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	return &MongoSink{st: s.st, attrs: s.attrs, prefix: s.prefix + name + "."}
}

// Dropped reports how many entries were discarded on a full buffer.
func (s *MongoSink) Dropped() int64 { return s.st.dropped.Load() }

// Close writes what is buffered and releases the connection. Safe to call
// more than once.
func (s *MongoSink) Close() {
	s.st.stop.Do(func() {
		close(s.st.done)
		s.st.wg.Wait()
		if s.st.after != nil {
			s.st.after()
		}
	})
}

func (st *sinkState) run() {
	defer st.wg.Done()

	tick := time.NewTicker(st.every)
	defer tick.Stop()

	pending := make([]interface{}, 0, st.batch)
	write := func() {
		if len(pending) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = st.out.InsertMany(ctx, pending)
		pending = make([]interface{}, 0, st.batch)
	}

	for {
		select {
		case e := <-st.entries:
			pending = append(pending, e)
			if len(pending) >= st.batch {
				write()
			}
		case <-tick.C:
			write()
		case <-st.done:
			for {
				select {
				case e := <-st.entries:
					pending = append(pending, e)
				default:
					write()
					return
				}
			}
		}
	}
}

// tee hands each record to every handler that accepts its level.
type tee []slog.Handler

// Tee combines handlers into one.
func Tee(hs ...slog.Handler) slog.Handler { return tee(hs) }

func (t tee) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (t tee) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t tee) WithGroup(name string) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
