package funcs

import (
	"math"

	"sheetengine/value"
)

func arg(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.Empty
}

func number1(args []value.Value) (float64, value.Value, bool) {
	return value.ToNumber(arg(args, 0))
}

func (r *Registry) registerMath() {
	r.register("ROUND", errorPropagating(func(args []value.Value) value.Value {
		n, errv, ok := number1(args)
		if !ok {
			return errv
		}
		digits, errv, ok := value.ToNumber(arg(args, 1))
		if !ok {
			return errv
		}
		return value.Number(roundTo(n, int(digits)))
	}))

	r.register("ROUNDUP", errorPropagating(func(args []value.Value) value.Value {
		n, errv, ok := number1(args)
		if !ok {
			return errv
		}
		digits, errv, ok := value.ToNumber(arg(args, 1))
		if !ok {
			return errv
		}
		return value.Number(roundAwayFromZero(n, int(digits), math.Ceil, math.Floor))
	}))

	r.register("ROUNDDOWN", errorPropagating(func(args []value.Value) value.Value {
		n, errv, ok := number1(args)
		if !ok {
			return errv
		}
		digits, errv, ok := value.ToNumber(arg(args, 1))
		if !ok {
			return errv
		}
		return value.Number(roundAwayFromZero(n, int(digits), math.Floor, math.Ceil))
	}))

	r.register("CEILING", errorPropagating(func(args []value.Value) value.Value {
		n, errv, ok := number1(args)
		if !ok {
			return errv
		}
		sig, errv, ok := value.ToNumber(arg(args, 1))
		if !ok {
			return errv
		}
		if sig == 0 {
			return value.Error(value.ErrDiv0)
		}
		return value.Number(math.Ceil(n/sig) * sig)
	}))

	r.register("FLOOR", errorPropagating(func(args []value.Value) value.Value {
		n, errv, ok := number1(args)
		if !ok {
			return errv
		}
		sig, errv, ok := value.ToNumber(arg(args, 1))
		if !ok {
			return errv
		}
		if sig == 0 {
			return value.Error(value.ErrDiv0)
		}
		return value.Number(math.Floor(n/sig) * sig)
	}))

	r.register("INT", errorPropagating(func(args []value.Value) value.Value {
		n, errv, ok := number1(args)
		if !ok {
			return errv
		}
		return value.Number(math.Floor(n))
	}))

	r.register("ABS", errorPropagating(func(args []value.Value) value.Value {
		n, errv, ok := number1(args)
		if !ok {
			return errv
		}
		return value.Number(math.Abs(n))
	}))

	r.register("POWER", errorPropagating(func(args []value.Value) value.Value {
		base, errv, ok := number1(args)
		if !ok {
			return errv
		}
		exp, errv, ok := value.ToNumber(arg(args, 1))
		if !ok {
			return errv
		}
		result := math.Pow(base, exp)
		if math.IsNaN(result) {
			return value.Error(value.ErrNum)
		}
		return value.Number(result)
	}))

	r.register("SQRT", errorPropagating(func(args []value.Value) value.Value {
		n, errv, ok := number1(args)
		if !ok {
			return errv
		}
		if n < 0 {
			return value.Error(value.ErrNum)
		}
		return value.Number(math.Sqrt(n))
	}))

	r.register("MOD", errorPropagating(func(args []value.Value) value.Value {
		n, errv, ok := number1(args)
		if !ok {
			return errv
		}
		d, errv, ok := value.ToNumber(arg(args, 1))
		if !ok {
			return errv
		}
		if d == 0 {
			return value.Error(value.ErrDiv0)
		}
		m := math.Mod(n, d)
		if m != 0 && (m < 0) != (d < 0) {
			m += d
		}
		return value.Number(m)
	}))

	// RAND/RANDBETWEEN read the injected RandomSource, never math/rand's
	// global generator, so evaluation stays deterministic under test.
	r.register("RAND", func(args []value.Value) value.Value {
		return value.Number(r.rng.Float64())
	})

	r.register("RANDBETWEEN", errorPropagating(func(args []value.Value) value.Value {
		lo, errv, ok := number1(args)
		if !ok {
			return errv
		}
		hi, errv, ok := value.ToNumber(arg(args, 1))
		if !ok {
			return errv
		}
		if hi < lo {
			return value.Error(value.ErrNum)
		}
		lo, hi = math.Ceil(lo), math.Floor(hi)
		span := hi - lo + 1
		return value.Number(lo + math.Floor(r.rng.Float64()*span))
	}))
}

func roundTo(n float64, digits int) float64 {
	mult := math.Pow(10, float64(digits))
	return math.Round(n*mult) / mult
}

// roundAwayFromZero implements ROUNDUP/ROUNDDOWN: posRound is applied when
// n is non-negative and negRound when n is negative. ROUNDUP passes
// (Ceil, Floor) to round away from zero; ROUNDDOWN passes (Floor, Ceil) to
// round toward zero.
func roundAwayFromZero(n float64, digits int, posRound, negRound func(float64) float64) float64 {
	mult := math.Pow(10, float64(digits))
	if n >= 0 {
		return posRound(n*mult) / mult
	}
	return negRound(n*mult) / mult
}
