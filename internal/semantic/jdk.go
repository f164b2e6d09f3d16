package semantic

// jdkTypes seeds the index with the slice of the platform library that
// rewrites care about: the exception hierarchy, strings and their builders, the
// boxes, and a few collection interfaces.
func jdkTypes() []TypeInfo {
	str := StringType
	boolean := Boolean
	void := VoidType
	long := Primitive("long")
	char := Primitive("char")
	double := Primitive("double")
	throwable := ClassType(ThrowableName)

	methods := func(ms ...Member) []Member { return ms }
	m := func(name string, t Type) Member { return Member{Name: name, Type: t} }
	sm := func(name string, t Type) Member { return Member{Name: name, Type: t, Static: true} }

	class := func(name, super string, ifaces []string, ms []Member) TypeInfo {
		supers := append([]string{super}, ifaces...)
		return TypeInfo{Name: name, Kind: TypeClass, Supers: supers, Methods: ms, Origin: OriginJDK}
	}
	iface := func(name string, supers []string, ms []Member) TypeInfo {
		return TypeInfo{Name: name, Kind: TypeInterface, Supers: supers, Methods: ms, Origin: OriginJDK}
	}
	exception := func(name, super string) TypeInfo {
		return class(name, super, nil, nil)
	}

	builder := func(name string) TypeInfo {
		self := ClassType(name)
		return class(name, "java.lang.AbstractStringBuilder", []string{"java.lang.CharSequence", "java.lang.Appendable"}, methods(
			m("append", self), m("insert", self), m("reverse", self), m("delete", self),
			m("deleteCharAt", self), m("replace", self), m("toString", str),
			m("length", Int), m("charAt", char), m("setLength", void),
			m("indexOf", Int), m("isEmpty", boolean),
		))
	}
	box := func(name, prim string, extra ...Member) TypeInfo {
		self := ClassType(name)
		p := Primitive(prim)
		info := class(name, "java.lang.Number", []string{"java.lang.Comparable"}, append(methods(
			sm("valueOf", self), m(prim+"Value", p), m("compareTo", Int),
			m("equals", boolean), m("hashCode", Int), m("toString", str),
		), extra...))
		info.Fields = []Member{{Name: "MAX_VALUE", Type: p, Static: true}, {Name: "MIN_VALUE", Type: p, Static: true}}
		return info
	}
	collection := []Member{
		m("size", Int), m("isEmpty", boolean), m("add", boolean), m("remove", boolean),
		m("contains", boolean), m("clear", void), m("addAll", boolean), m("get", Unknown),
	}
	mapMethods := []Member{
		m("size", Int), m("isEmpty", boolean), m("containsKey", boolean), m("containsValue", boolean),
		m("clear", void), m("get", Unknown), m("put", Unknown), m("remove", Unknown),
	}

	types := []TypeInfo{
		{Name: ObjectName, Kind: TypeClass, Origin: OriginJDK, Methods: methods(
			m("toString", str), m("equals", boolean), m("hashCode", Int),
			m("getClass", ClassType("java.lang.Class")), m("notify", void), m("notifyAll", void), m("wait", void),
		)},
		class("java.lang.Class", ObjectName, nil, methods(m("getName", str), m("getSimpleName", str))),
		iface("java.lang.CharSequence", nil, methods(m("length", Int), m("charAt", char), m("toString", str), m("isEmpty", boolean))),
		iface("java.lang.Appendable", nil, nil),
		iface("java.lang.Comparable", nil, methods(m("compareTo", Int))),
		iface("java.lang.Runnable", nil, methods(m("run", void))),
		iface("java.lang.AutoCloseable", nil, methods(m("close", void))),
		iface("java.lang.Iterable", nil, nil),
		iface("java.io.Closeable", []string{"java.lang.AutoCloseable"}, nil),
		iface("java.io.Serializable", nil, nil),
		iface("java.lang.annotation.Annotation", nil, nil),
		class("java.lang.String", ObjectName, []string{"java.lang.CharSequence", "java.lang.Comparable", "java.io.Serializable"}, methods(
			m("length", Int), m("isEmpty", boolean), m("isBlank", boolean), m("charAt", char),
			m("substring", str), m("trim", str), m("strip", str), m("toUpperCase", str), m("toLowerCase", str),
			m("concat", str), m("replace", str), m("replaceAll", str), m("repeat", str),
			m("contains", boolean), m("startsWith", boolean), m("endsWith", boolean),
			m("equals", boolean), m("equalsIgnoreCase", boolean), m("indexOf", Int), m("lastIndexOf", Int),
			m("compareTo", Int), m("hashCode", Int), m("toString", str), m("intern", str),
			m("split", ArrayOf(str, 1)), m("toCharArray", ArrayOf(char, 1)),
			sm("valueOf", str), sm("format", str), sm("join", str),
		)),
		class("java.lang.AbstractStringBuilder", ObjectName, nil, nil),
		builder("java.lang.StringBuilder"),
		builder("java.lang.StringBuffer"),
		class("java.lang.Number", ObjectName, []string{"java.io.Serializable"}, methods(
			m("intValue", Int), m("longValue", long), m("doubleValue", double),
		)),
		box("java.lang.Integer", "int", sm("parseInt", Int), sm("toString", str)),
		box("java.lang.Long", "long", sm("parseLong", long)),
		box("java.lang.Short", "short"),
		box("java.lang.Byte", "byte"),
		box("java.lang.Double", "double", sm("parseDouble", double)),
		box("java.lang.Float", "float"),
		class("java.lang.Character", ObjectName, []string{"java.lang.Comparable"}, methods(
			sm("isDigit", boolean), sm("isLetter", boolean), sm("isWhitespace", boolean), m("charValue", char),
		)),
		class("java.lang.Boolean", ObjectName, []string{"java.lang.Comparable"}, methods(
			sm("parseBoolean", boolean), sm("valueOf", ClassType("java.lang.Boolean")), m("booleanValue", boolean),
		)),
		class("java.lang.Math", ObjectName, nil, methods(sm("sqrt", double), sm("random", double), sm("floor", double), sm("ceil", double))),
		{Name: "java.lang.System", Kind: TypeClass, Supers: []string{ObjectName}, Origin: OriginJDK,
			Fields: []Member{
				{Name: "out", Type: ClassType("java.io.PrintStream"), Static: true},
				{Name: "err", Type: ClassType("java.io.PrintStream"), Static: true},
			},
			Methods: methods(sm("currentTimeMillis", long), sm("nanoTime", long), sm("getProperty", str), sm("getenv", str), sm("exit", void)),
		},
		class("java.io.PrintStream", ObjectName, []string{"java.io.Closeable"}, methods(
			m("println", void), m("print", void), m("printf", ClassType("java.io.PrintStream")), m("flush", void),
		)),
		class("java.lang.Enum", ObjectName, []string{"java.lang.Comparable", "java.io.Serializable"}, methods(m("name", str), m("ordinal", Int))),
		class("java.lang.Record", ObjectName, nil, nil),
		class("java.lang.Thread", ObjectName, []string{"java.lang.Runnable"}, methods(sm("sleep", void), m("start", void), m("interrupt", void), sm("currentThread", ClassType("java.lang.Thread")))),

		class(ThrowableName, ObjectName, []string{"java.io.Serializable"}, methods(
			m("getMessage", str), m("getLocalizedMessage", str), m("getCause", throwable),
			m("initCause", throwable), m("fillInStackTrace", throwable), m("printStackTrace", void),
			m("addSuppressed", void), m("toString", str),
		)),
		exception("java.lang.Exception", ThrowableName),
		exception("java.lang.Error", ThrowableName),
		exception("java.lang.RuntimeException", "java.lang.Exception"),
		exception("java.lang.IllegalArgumentException", "java.lang.RuntimeException"),
		exception("java.lang.NumberFormatException", "java.lang.IllegalArgumentException"),
		exception("java.lang.IllegalStateException", "java.lang.RuntimeException"),
		exception("java.lang.NullPointerException", "java.lang.RuntimeException"),
		exception("java.lang.ArithmeticException", "java.lang.RuntimeException"),
		exception("java.lang.ClassCastException", "java.lang.RuntimeException"),
		exception("java.lang.UnsupportedOperationException", "java.lang.RuntimeException"),
		exception("java.lang.IndexOutOfBoundsException", "java.lang.RuntimeException"),
		exception("java.lang.ArrayIndexOutOfBoundsException", "java.lang.IndexOutOfBoundsException"),
		exception("java.lang.StringIndexOutOfBoundsException", "java.lang.IndexOutOfBoundsException"),
		exception("java.lang.SecurityException", "java.lang.RuntimeException"),
		exception("java.lang.InterruptedException", "java.lang.Exception"),
		exception("java.lang.CloneNotSupportedException", "java.lang.Exception"),
		exception("java.lang.ReflectiveOperationException", "java.lang.Exception"),
		exception("java.lang.ClassNotFoundException", "java.lang.ReflectiveOperationException"),
		exception("java.lang.NoSuchMethodException", "java.lang.ReflectiveOperationException"),
		exception("java.lang.NoSuchFieldException", "java.lang.ReflectiveOperationException"),
		exception("java.lang.OutOfMemoryError", "java.lang.Error"),
		exception("java.lang.StackOverflowError", "java.lang.Error"),
		exception("java.lang.AssertionError", "java.lang.Error"),
		exception("java.io.IOException", "java.lang.Exception"),
		exception("java.io.FileNotFoundException", "java.io.IOException"),
		exception("java.io.EOFException", "java.io.IOException"),
		exception("java.io.UncheckedIOException", "java.lang.RuntimeException"),
		exception("java.net.MalformedURLException", "java.io.IOException"),
		exception("java.net.URISyntaxException", "java.lang.Exception"),
		exception("java.sql.SQLException", "java.lang.Exception"),
		exception("java.util.NoSuchElementException", "java.lang.RuntimeException"),
		exception("java.util.ConcurrentModificationException", "java.lang.RuntimeException"),
		exception("java.util.concurrent.TimeoutException", "java.lang.Exception"),
		exception("java.util.concurrent.ExecutionException", "java.lang.Exception"),

		iface("java.util.Collection", []string{"java.lang.Iterable"}, collection),
		iface("java.util.List", []string{"java.util.Collection"}, collection),
		iface("java.util.Set", []string{"java.util.Collection"}, collection),
		iface("java.util.Map", nil, mapMethods),
		class("java.util.ArrayList", ObjectName, []string{"java.util.List"}, collection),
		class("java.util.LinkedList", ObjectName, []string{"java.util.List"}, collection),
		class("java.util.HashSet", ObjectName, []string{"java.util.Set"}, collection),
		class("java.util.HashMap", ObjectName, []string{"java.util.Map"}, mapMethods),
		class("java.util.Objects", ObjectName, nil, methods(sm("equals", boolean), sm("hash", Int), sm("isNull", boolean), sm("nonNull", boolean), sm("toString", str))),
	}
	return types
}
