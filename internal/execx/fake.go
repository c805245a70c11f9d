package execx

import (
	"context"
	"strings"
	"sync"
)

// Call kaydedilen tek bir komut çağrısı
type Call struct {
	Name string
	Args []string
}

// HasArg çağrıda verilen argümanın bulunup bulunmadığını döner
func (c Call) HasArg(arg string) bool {
	for _, a := range c.Args {
		if a == arg {
			return true
		}
	}
	return false
}

// ArgAfter flag'den sonra gelen değeri döner (örn: "-i" → girdi yolu)
func (c Call) ArgAfter(flag string) string {
	for i := 0; i < len(c.Args)-1; i++ {
		if c.Args[i] == flag {
			return c.Args[i+1]
		}
	}
	return ""
}

// Fake komut çalıştırmadan çağrıları kaydeden Runner.
// Handler nil ise her çağrı boş çıktı ile başarılı sayılır.
type Fake struct {
	Handler func(ctx context.Context, call Call) ([]byte, error)

	mu    sync.Mutex
	calls []Call
}

func (f *Fake) record(name string, args []string) Call {
	call := Call{Name: name, Args: append([]string(nil), args...)}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	return call
}

// Calls kaydedilen çağrıların kopyasını döner
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *Fake) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	call := f.record(name, args)
	if f.Handler == nil {
		return nil, nil
	}
	return f.Handler(ctx, call)
}

func (f *Fake) Stream(ctx context.Context, onLine func(line string), name string, args ...string) error {
	call := f.record(name, args)
	if f.Handler == nil {
		return nil
	}
	out, err := f.Handler(ctx, call)
	if onLine != nil {
		for _, line := range strings.Split(string(out), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				onLine(line)
			}
		}
	}
	return err
}
