package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// jsonFloat encodes NaN and infinities as strings instead of failing;
// zero-volatility periods legitimately produce them.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = jsonFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

// Series is a float slice whose JSON form keeps NaN and infinities, so a
// blown-up NAV trajectory still serializes
type Series []float64

// MarshalJSON implements json.Marshaler
func (s Series) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	buf := make([]byte, 0, 2+len(s)*8)
	buf = append(buf, '[')
	for i, v := range s {
		if i > 0 {
			buf = append(buf, ',')
		}
		b, err := jsonFloat(v).MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	return append(buf, ']'), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []jsonFloat
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}
	out := make(Series, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	*s = out
	return nil
}

type performanceRowJSON struct {
	Period           string    `json:"period"`
	AnnualReturn     jsonFloat `json:"annual_return"`
	AnnualVolatility jsonFloat `json:"annual_volatility"`
	Sharpe           jsonFloat `json:"sharpe"`
	MaxDrawdown      jsonFloat `json:"max_drawdown"`
}

// MarshalJSON implements json.Marshaler
func (r PerformanceRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(performanceRowJSON{
		Period:           r.Period,
		AnnualReturn:     jsonFloat(r.AnnualReturn),
		AnnualVolatility: jsonFloat(r.AnnualVolatility),
		Sharpe:           jsonFloat(r.Sharpe),
		MaxDrawdown:      jsonFloat(r.MaxDrawdown),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (r *PerformanceRow) UnmarshalJSON(data []byte) error {
	var raw performanceRowJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = PerformanceRow{
		Period:           raw.Period,
		AnnualReturn:     float64(raw.AnnualReturn),
		AnnualVolatility: float64(raw.AnnualVolatility),
		Sharpe:           float64(raw.Sharpe),
		MaxDrawdown:      float64(raw.MaxDrawdown),
	}
	return nil
}
