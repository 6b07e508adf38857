// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

// Action is a one-way message describing an operation against the
// exposer's reference table. The set of actions is closed.
//
// Every action except ReleaseAction carries the Buffer the reply is
// published in. The exposer owns one reference to that Buffer and
// closes it after publishing.
type Action interface {
	Op() Op
	reply() *Buffer
	dispatch(x *exposer) Result
}

// ConsumeAction looks up an exposed name and caches the value
// under Key when it is an object or function.
type ConsumeAction struct {
	Name  string
	Key   string
	Reply *Buffer
}

func (ConsumeAction) Op() Op           { return OpConsume }
func (a ConsumeAction) reply() *Buffer { return a.Reply }

func (a ConsumeAction) dispatch(x *exposer) Result {
	v, ok := x.tab.lookupName(a.Name)
	if !ok {
		return throw(ErrNotExposed.with(a.Name))
	}
	x.cache(a.Key, v)
	return succeed(v)
}

// GetAction reads property Prop of the object at Target.
type GetAction struct {
	Target string
	Prop   string
	Key    string
	Reply  *Buffer
}

func (GetAction) Op() Op           { return OpGet }
func (a GetAction) reply() *Buffer { return a.Reply }

func (a GetAction) dispatch(x *exposer) Result {
	obj, err := x.object(a.Target)
	if err != nil {
		return throw(err)
	}
	v, err := obj.Get(a.Prop)
	if err != nil {
		return throw(err)
	}
	x.cache(a.Key, v)
	return succeed(v)
}

// SetAction assigns Value to property Prop of the object at Target.
// The reply is Undefined on success.
type SetAction struct {
	Target string
	Prop   string
	Value  Value
	Reply  *Buffer
}

func (SetAction) Op() Op           { return OpSet }
func (a SetAction) reply() *Buffer { return a.Reply }

func (a SetAction) dispatch(x *exposer) Result {
	obj, err := x.object(a.Target)
	if err != nil {
		return throw(err)
	}
	if err := obj.Set(a.Prop, x.resolve(a.Value)); err != nil {
		return throw(err)
	}
	return succeed(Undefined())
}

// ApplyAction invokes the function at Target. An empty Context
// invokes it without a calling context.
type ApplyAction struct {
	Target  string
	Context string
	Args    []Value
	Key     string
	Reply   *Buffer
}

func (ApplyAction) Op() Op           { return OpApply }
func (a ApplyAction) reply() *Buffer { return a.Reply }

func (a ApplyAction) dispatch(x *exposer) Result {
	target, err := x.target(a.Target)
	if err != nil {
		return throw(err)
	}
	fn := target.Function()
	if fn == nil {
		return throw(typeError("%s is not a function", target))
	}
	this := Undefined()
	if a.Context != "" {
		if this, err = x.target(a.Context); err != nil {
			return throw(err)
		}
	}
	args := make([]Value, len(a.Args))
	for i, arg := range a.Args {
		args[i] = x.resolve(arg)
	}
	v, err := fn.Apply(this, args)
	if err != nil {
		return throw(err)
	}
	x.cache(a.Key, v)
	return succeed(v)
}

// OwnKeysAction enumerates the own keys of the object at Target.
// The reply is a JSON array of strings.
type OwnKeysAction struct {
	Target string
	Reply  *Buffer
}

func (OwnKeysAction) Op() Op           { return OpOwnKeys }
func (a OwnKeysAction) reply() *Buffer { return a.Reply }

func (a OwnKeysAction) dispatch(x *exposer) Result {
	obj, err := x.object(a.Target)
	if err != nil {
		return throw(err)
	}
	keys, err := obj.OwnKeys()
	if err != nil {
		return throw(err)
	}
	return jsonResult(keysOrEmpty(keys))
}

// DescribeAction fetches the descriptor flags of property Prop of the
// object at Target. The reply is a JSON Descriptor, or Undefined if the
// property does not exist.
type DescribeAction struct {
	Target string
	Prop   string
	Reply  *Buffer
}

func (DescribeAction) Op() Op           { return OpDescribe }
func (a DescribeAction) reply() *Buffer { return a.Reply }

func (a DescribeAction) dispatch(x *exposer) Result {
	obj, err := x.object(a.Target)
	if err != nil {
		return throw(err)
	}
	d, err := obj.Describe(a.Prop)
	if err != nil {
		return throw(err)
	}
	if d == nil {
		return succeed(Undefined())
	}
	return jsonResult(d)
}

// ReleaseAction drops Key from the reference table. It has no reply.
type ReleaseAction struct {
	Key string
}

func (ReleaseAction) Op() Op         { return OpRelease }
func (ReleaseAction) reply() *Buffer { return nil }

func (a ReleaseAction) dispatch(x *exposer) Result {
	if !x.tab.remove(a.Key) {
		log.Debugf("release of unknown reference %s", a.Key)
	}
	return succeed(Undefined())
}

func keysOrEmpty(keys []string) []string {
	if keys == nil {
		return []string{}
	}
	return keys
}
