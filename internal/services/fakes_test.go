package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/arzan03/DoctorsPortal/internal/models"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Booking
}

func (n *recordingNotifier) BookingConfirmed(b models.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, b)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fakeIntents struct {
	amounts  []int64
	currency string
	err      error
}

func (f *fakeIntents) CreateCardIntent(_ context.Context, amount int64, currency string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.amounts = append(f.amounts, amount)
	f.currency = currency
	return "pi_secret_test", nil
}

type fakeImages struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    error
	removeErr error
}

func newFakeImages() *fakeImages {
	return &fakeImages{objects: make(map[string][]byte)}
}

func (f *fakeImages) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return "http://images.test/" + key, nil
}

func (f *fakeImages) Remove(_ context.Context, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key]; !ok {
		return errors.New("no such object")
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeImages) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func pngUpload(name string) *ImageUpload {
	body := []byte("\x89PNG fake")
	return &ImageUpload{
		Filename:    name,
		ContentType: "image/png",
		Size:        int64(len(body)),
		Body:        bytes.NewReader(body),
	}
}
