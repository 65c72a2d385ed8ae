package domain

import "errors"

var (
	ErrEmptyInput        = errors.New("empty candle series")
	ErrInsufficientData  = errors.New("not enough candles")
	ErrInvalidCandle     = errors.New("invalid candle")
	ErrUnorderedSeries   = errors.New("series not strictly increasing by timestamp")
	ErrUnknownInstrument = errors.New("no instrument configured for symbol")
	ErrNotFound          = errors.New("not found")
)
